// Package format defines the supported output formats and their
// ffmpeg encoding presets.
package format

import (
	"fmt"
	"strings"
)

// Format is a supported output format.
type Format int

const (
	// MP3 produces 320 kbps MP3 files with ID3v2.4 tags.
	MP3 Format = iota

	// OGG produces 320 kbps Ogg Vorbis files.
	OGG
)

// Parse resolves an output extension to a Format. Unknown extensions
// are a setup error; the converter never guesses an encoder.
func Parse(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")) {
	case "mp3":
		return MP3, nil
	case "ogg":
		return OGG, nil
	default:
		return 0, fmt.Errorf("unsupported output format %q (supported: mp3, ogg)", ext)
	}
}

// Ext returns the output file extension without the dot.
func (f Format) Ext() string {
	switch f {
	case OGG:
		return "ogg"
	default:
		return "mp3"
	}
}

// String returns the format name.
func (f Format) String() string {
	return f.Ext()
}

// AudioArgs returns the ffmpeg audio encoding arguments.
func (f Format) AudioArgs() []string {
	switch f {
	case OGG:
		return []string{"-b:a", "320k"}
	default:
		return []string{"-b:a", "320k", "-write_id3v2", "1", "-id3v2_version", "4"}
	}
}

// ArtCodec returns the video codec used for embedded cover art.
// MP3 carries JPEG pictures; Ogg containers need Theora.
func (f Format) ArtCodec() string {
	if f == OGG {
		return "libtheora"
	}
	return "mjpeg"
}

// QualityArgs maps the user-facing 1..31 picture quality scale (1 is
// best) to the codec's own scale.
func (f Format) QualityArgs(quality int) []string {
	if quality < 1 {
		quality = 1
	}
	if quality > 31 {
		quality = 31
	}
	if f == OGG {
		// Theora quality runs 0..10 with 10 best, so the scale inverts.
		q := (31 - quality) * 10 / 30
		return []string{"-q:v", fmt.Sprintf("%d", q)}
	}
	return []string{"-qmin", "1", "-q:v", fmt.Sprintf("%d", quality)}
}

// ScaleFilter returns an ffmpeg -vf expression that shrinks cover art
// to fit within the given bounds while keeping the aspect ratio.
// Art already within bounds passes through untouched.
func ScaleFilter(maxWidth, maxHeight int) string {
	return fmt.Sprintf(
		"scale='w=min(%d,iw)':h='min(%d,ih)':force_original_aspect_ratio=decrease:flags=lanczos",
		maxWidth, maxHeight)
}
