package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if got := s.OutputExt; got != "mp3" {
		t.Errorf("OutputExt = %q, want mp3", got)
	}
	if want := []string{"flac", "wv", "m4a"}; !slices.Equal(s.InputExts, want) {
		t.Errorf("InputExts = %v, want %v", s.InputExts, want)
	}
	if s.MaxPicWidth != 500 || s.MaxPicHeight != 500 {
		t.Errorf("pic bounds = %dx%d, want 500x500", s.MaxPicWidth, s.MaxPicHeight)
	}
	if s.PicQuality != 2 {
		t.Errorf("PicQuality = %d, want 2", s.PicQuality)
	}
	if !s.UseEmbedPic {
		t.Error("UseEmbedPic off by default")
	}
	if s.MinTrackNumberDigits != 2 {
		t.Errorf("MinTrackNumberDigits = %d, want 2", s.MinTrackNumberDigits)
	}
	if s.FilenameTemplate == "" {
		t.Error("FilenameTemplate empty by default")
	}

	s.InputDirs = []string{"/music"}
	s.OutputDir = "/out"
	if err := s.Validate(); err != nil {
		t.Errorf("defaults with dirs set failed validation: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() on a missing file: %v", err)
	}
	if s.OutputExt != "mp3" {
		t.Errorf("missing file did not yield defaults, OutputExt = %q", s.OutputExt)
	}
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted invalid JSON")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "settings.json")

	s := DefaultSettings()
	s.OutputExt = "ogg"
	s.Threads = 4
	s.InputDirs = []string{"/music/rips"}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.OutputExt != "ogg" || loaded.Threads != 4 {
		t.Errorf("round trip lost values: OutputExt=%q Threads=%d", loaded.OutputExt, loaded.Threads)
	}
	if want := []string{"/music/rips"}; !slices.Equal(loaded.InputDirs, want) {
		t.Errorf("InputDirs = %v, want %v", loaded.InputDirs, want)
	}
}

func newFlagSet(t *testing.T) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	return fs
}

func TestApplyFlagsPrecedence(t *testing.T) {
	// Simulates a settings file that set ogg and 8 threads.
	s := DefaultSettings()
	s.OutputExt = "ogg"
	s.Threads = 8

	fs := newFlagSet(t)
	args := []string{
		"--input-dir", "/a",
		"--input-dir", "/b",
		"--output-dir", "/out",
		"--threads", "2",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	s.ApplyFlags(fs)

	if want := []string{"/a", "/b"}; !slices.Equal(s.InputDirs, want) {
		t.Errorf("InputDirs = %v, want %v", s.InputDirs, want)
	}
	if s.OutputDir != "/out" {
		t.Errorf("OutputDir = %q, want /out", s.OutputDir)
	}
	if s.Threads != 2 {
		t.Errorf("Threads = %d, explicit flag must beat the file value", s.Threads)
	}
	if s.OutputExt != "ogg" {
		t.Errorf("OutputExt = %q, untouched flag must not clobber the file value", s.OutputExt)
	}
}

func TestApplyFlagsLists(t *testing.T) {
	s := DefaultSettings()

	fs := newFlagSet(t)
	if err := fs.Parse([]string{"--input-ext", "flac,ape", "--cover-name", "folder"}); err != nil {
		t.Fatal(err)
	}
	s.ApplyFlags(fs)

	if want := []string{"flac", "ape"}; !slices.Equal(s.InputExts, want) {
		t.Errorf("InputExts = %v, want %v", s.InputExts, want)
	}
	if want := []string{"folder"}; !slices.Equal(s.CoverNames, want) {
		t.Errorf("CoverNames = %v, want %v", s.CoverNames, want)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Settings {
		s := DefaultSettings()
		s.InputDirs = []string{"/music"}
		s.OutputDir = "/out"
		return s
	}

	tests := []struct {
		name  string
		tweak func(*Settings)
	}{
		{"no input dirs", func(s *Settings) { s.InputDirs = nil }},
		{"no output dir", func(s *Settings) { s.OutputDir = "" }},
		{"no input extensions", func(s *Settings) { s.InputExts = nil }},
		{"negative threads", func(s *Settings) { s.Threads = -1 }},
		{"too many threads", func(s *Settings) { s.Threads = 1025 }},
		{"zero pic width", func(s *Settings) { s.MaxPicWidth = 0 }},
		{"huge pic height", func(s *Settings) { s.MaxPicHeight = 5001 }},
		{"quality too low", func(s *Settings) { s.PicQuality = 0 }},
		{"quality too high", func(s *Settings) { s.PicQuality = 32 }},
		{"zero digits", func(s *Settings) { s.MinTrackNumberDigits = 0 }},
		{"too many digits", func(s *Settings) { s.MinTrackNumberDigits = 11 }},
		{"empty ffmpeg bin", func(s *Settings) { s.FfmpegBin = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.tweak(s)
			if err := s.Validate(); err == nil {
				t.Error("Validate() accepted invalid settings")
			}
		})
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("Validate() rejected valid settings: %v", err)
	}

	edge := valid()
	edge.Threads = 1024
	edge.PicQuality = 31
	edge.MinTrackNumberDigits = 10
	if err := edge.Validate(); err != nil {
		t.Errorf("Validate() rejected boundary values: %v", err)
	}
}
