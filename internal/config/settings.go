package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/alkatrazstudio/musbconv/internal/template"
)

// Settings holds all conversion options.
type Settings struct {
	// Input and output
	InputDirs        []string `json:"input_dirs"`
	OutputDir        string   `json:"output_dir"`
	InputExts        []string `json:"input_exts"`
	OutputExt        string   `json:"output_ext"`
	FilenameTemplate string   `json:"filename_template"`

	// Conversion
	DryRun               bool `json:"dry_run"`
	Overwrite            bool `json:"overwrite"`
	Threads              int  `json:"threads"`
	MinTrackNumberDigits int  `json:"min_track_number_digits"`

	// Cover art
	MaxPicWidth  int      `json:"max_pic_width"`
	MaxPicHeight int      `json:"max_pic_height"`
	PicQuality   int      `json:"pic_quality"`
	UseEmbedPic  bool     `json:"use_embed_pic"`
	CoverNames   []string `json:"cover_names"`
	CoverExts    []string `json:"cover_exts"`

	// Output post-processing
	Id3Retag bool `json:"id3_retag"`
	Playlist bool `json:"playlist"`

	// External tools
	FfmpegBin  string   `json:"ffmpeg_bin"`
	FfprobeBin string   `json:"ffprobe_bin"`
	FfmpegArgs []string `json:"-"`

	// Reporting
	Verbose bool `json:"verbose"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		InputExts:        []string{"flac", "wv", "m4a"},
		OutputExt:        "mp3",
		FilenameTemplate: template.Default,

		Threads:              0,
		MinTrackNumberDigits: 2,

		MaxPicWidth:  500,
		MaxPicHeight: 500,
		PicQuality:   2,
		UseEmbedPic:  true,
		CoverNames:   []string{"folder", "cover", "album", "albumartsmall", "thumb", "front", "scan"},
		CoverExts:    []string{"jpeg", "jpg", "png", "gif"},

		FfmpegBin:  "ffmpeg",
		FfprobeBin: "ffprobe",
	}
}

// DefaultPath returns the default settings file location.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "musbconv", "settings.json")
}

// Load reads a settings file.
//
// A missing file is not an error: defaults are returned, so a fresh
// installation works without any configuration.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return settings, nil
}

// Save writes the settings as indented JSON, creating parent
// directories as needed.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks option ranges and required values.
func (s *Settings) Validate() error {
	if len(s.InputDirs) == 0 {
		return fmt.Errorf("at least one input directory is required")
	}
	if s.OutputDir == "" {
		return fmt.Errorf("an output directory is required")
	}
	if len(s.InputExts) == 0 {
		return fmt.Errorf("at least one input extension is required")
	}
	if s.Threads < 0 || s.Threads > 1024 {
		return fmt.Errorf("threads must be between 0 and 1024, got %d", s.Threads)
	}
	if s.MaxPicWidth < 1 || s.MaxPicWidth > 5000 {
		return fmt.Errorf("max-pic-width must be between 1 and 5000, got %d", s.MaxPicWidth)
	}
	if s.MaxPicHeight < 1 || s.MaxPicHeight > 5000 {
		return fmt.Errorf("max-pic-height must be between 1 and 5000, got %d", s.MaxPicHeight)
	}
	if s.PicQuality < 1 || s.PicQuality > 31 {
		return fmt.Errorf("pic-quality must be between 1 and 31, got %d", s.PicQuality)
	}
	if s.MinTrackNumberDigits < 1 || s.MinTrackNumberDigits > 10 {
		return fmt.Errorf("min-track-number-digits must be between 1 and 10, got %d", s.MinTrackNumberDigits)
	}
	if s.FfmpegBin == "" || s.FfprobeBin == "" {
		return fmt.Errorf("ffmpeg-bin and ffprobe-bin must not be empty")
	}
	return nil
}

// BindFlags registers every conversion option on the flag set.
//
// Flag defaults mirror DefaultSettings, so the help output shows the
// effective built-in configuration.
func BindFlags(fs *pflag.FlagSet) {
	defs := DefaultSettings()

	fs.StringArray("input-dir", nil, "directory to search for audio files (repeatable)")
	fs.String("output-dir", "", "directory for converted files")
	fs.StringSlice("input-ext", defs.InputExts, "extensions of files to convert")
	fs.String("output-ext", defs.OutputExt, "output format (mp3 or ogg)")
	fs.String("filename-template", defs.FilenameTemplate, "template for output file paths")
	fs.Bool("dry-run", defs.DryRun, "print planned commands without converting")
	fs.Bool("overwrite", defs.Overwrite, "replace existing output files")
	fs.Int("threads", defs.Threads, "parallel conversions (0 = number of CPUs)")
	fs.Int("min-track-number-digits", defs.MinTrackNumberDigits, "zero-pad track numbers to at least this width")
	fs.Int("max-pic-width", defs.MaxPicWidth, "maximum cover art width in pixels")
	fs.Int("max-pic-height", defs.MaxPicHeight, "maximum cover art height in pixels")
	fs.Int("pic-quality", defs.PicQuality, "cover art quality, 1 (best) to 31 (worst)")
	fs.Bool("use-embed-pic", defs.UseEmbedPic, "prefer cover art embedded in the source file")
	fs.StringSlice("cover-name", defs.CoverNames, "base names of external cover files")
	fs.StringSlice("cover-ext", defs.CoverExts, "extensions of external cover files")
	fs.Bool("id3-retag", defs.Id3Retag, "rewrite ID3v2 tags on converted mp3 files")
	fs.Bool("playlist", defs.Playlist, "write an m3u8 playlist per output directory")
	fs.String("ffmpeg-bin", defs.FfmpegBin, "ffmpeg binary name or path")
	fs.String("ffprobe-bin", defs.FfprobeBin, "ffprobe binary name or path")
	fs.Bool("verbose", defs.Verbose, "print per-job commands and details")
}

// ApplyFlags overlays explicitly set flags onto the settings.
//
// Only flags the user actually passed are applied, so values from the
// settings file survive unless overridden on the command line.
func (s *Settings) ApplyFlags(fs *pflag.FlagSet) {
	if fs.Changed("input-dir") {
		s.InputDirs, _ = fs.GetStringArray("input-dir")
	}
	if fs.Changed("output-dir") {
		s.OutputDir, _ = fs.GetString("output-dir")
	}
	if fs.Changed("input-ext") {
		s.InputExts, _ = fs.GetStringSlice("input-ext")
	}
	if fs.Changed("output-ext") {
		s.OutputExt, _ = fs.GetString("output-ext")
	}
	if fs.Changed("filename-template") {
		s.FilenameTemplate, _ = fs.GetString("filename-template")
	}
	if fs.Changed("dry-run") {
		s.DryRun, _ = fs.GetBool("dry-run")
	}
	if fs.Changed("overwrite") {
		s.Overwrite, _ = fs.GetBool("overwrite")
	}
	if fs.Changed("threads") {
		s.Threads, _ = fs.GetInt("threads")
	}
	if fs.Changed("min-track-number-digits") {
		s.MinTrackNumberDigits, _ = fs.GetInt("min-track-number-digits")
	}
	if fs.Changed("max-pic-width") {
		s.MaxPicWidth, _ = fs.GetInt("max-pic-width")
	}
	if fs.Changed("max-pic-height") {
		s.MaxPicHeight, _ = fs.GetInt("max-pic-height")
	}
	if fs.Changed("pic-quality") {
		s.PicQuality, _ = fs.GetInt("pic-quality")
	}
	if fs.Changed("use-embed-pic") {
		s.UseEmbedPic, _ = fs.GetBool("use-embed-pic")
	}
	if fs.Changed("cover-name") {
		s.CoverNames, _ = fs.GetStringSlice("cover-name")
	}
	if fs.Changed("cover-ext") {
		s.CoverExts, _ = fs.GetStringSlice("cover-ext")
	}
	if fs.Changed("id3-retag") {
		s.Id3Retag, _ = fs.GetBool("id3-retag")
	}
	if fs.Changed("playlist") {
		s.Playlist, _ = fs.GetBool("playlist")
	}
	if fs.Changed("ffmpeg-bin") {
		s.FfmpegBin, _ = fs.GetString("ffmpeg-bin")
	}
	if fs.Changed("ffprobe-bin") {
		s.FfprobeBin, _ = fs.GetString("ffprobe-bin")
	}
	if fs.Changed("verbose") {
		s.Verbose, _ = fs.GetBool("verbose")
	}
}
