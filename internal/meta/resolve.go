package meta

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Overlay holds per-track values from a CUE sheet. Non-empty values
// override the corresponding extracted raw tags before the fallback
// chains run, so CUE data participates in every fallback.
type Overlay struct {
	Album         string
	Title         string
	Performer     string
	Songwriter    string
	Genre         string
	Date          string
	DiscID        string
	CatalogNumber string
	Track         string
	Tracks        string
}

// ResolveOptions controls tag resolution.
type ResolveOptions struct {
	// MinTrackDigits is the minimum zero-padded width of the Track
	// and Tracks fields.
	MinTrackDigits int
}

// Resolve produces the canonical tags for one track.
//
// The stages run in a fixed order: raw tag mapping, CUE overlay,
// fallback chains, disc normalization, track padding. Resolution is a
// pure function of its inputs; the same raw tags, overlay, input path
// and options always produce the same Tags value.
func Resolve(raw RawTags, overlay *Overlay, inputPath string, opts ResolveOptions) Tags {
	t := fromRaw(raw)
	t.applyOverlay(overlay)

	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	t.FileName = base
	t.DirName = filepath.Base(filepath.Dir(inputPath))
	t.FileBase = strings.TrimSuffix(base, ext)
	t.FileExt = strings.TrimPrefix(ext, ".")

	t.fillFallbacks()
	t.normalizeDisc()
	t.padTrackNumbers(opts.MinTrackDigits)

	return t
}

// applyOverlay overrides extracted values with non-empty CUE values.
// A CUE performer names who actually plays on the rip, so it wins
// over the container's artist as well.
func (t *Tags) applyOverlay(ov *Overlay) {
	if ov == nil {
		return
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&t.Album, ov.Album)
	override(&t.Title, ov.Title)
	override(&t.Songwriter, ov.Songwriter)
	override(&t.Genre, ov.Genre)
	override(&t.Date, ov.Date)
	override(&t.DiscID, ov.DiscID)
	override(&t.CatalogNumber, ov.CatalogNumber)
	override(&t.Track, ov.Track)
	override(&t.Tracks, ov.Tracks)
	if ov.Performer != "" {
		t.Performer = ov.Performer
		t.Artist = ov.Performer
	}
}

var leadingYearRe = regexp.MustCompile(`^\d{4}`)

// fillFallbacks applies the fallback chains. Later rules see the
// output of earlier ones, which is what makes the composer, lyricist
// and songwriter group converge on a single value.
func (t *Tags) fillFallbacks() {
	if t.Title == "" {
		t.Title = t.FileBase
	}
	if t.Album == "" {
		t.Album = t.DirName
	}
	if t.Artist == "" {
		t.Artist = firstNonEmpty(t.Author, t.Performer)
	}
	if t.Author == "" {
		t.Author = firstNonEmpty(t.Artist, t.Performer)
	}
	if t.Year == "" {
		t.Year = leadingYearRe.FindString(t.Date)
	}
	if t.Date == "" {
		t.Date = t.Year
	}
	if t.Composer == "" {
		t.Composer = firstNonEmpty(t.Lyricist, t.Songwriter, t.Artist)
	}
	if t.Lyricist == "" {
		t.Lyricist = firstNonEmpty(t.Composer, t.Songwriter, t.Artist)
	}
	if t.Songwriter == "" {
		t.Songwriter = firstNonEmpty(t.Composer, t.Lyricist, t.Artist)
	}
}

// normalizeDisc clears a numeric "disc 1 of 1" pair. Single-disc
// albums should not produce a disc path segment.
func (t *Tags) normalizeDisc() {
	disc, err1 := strconv.Atoi(strings.TrimSpace(t.Disc))
	discs, err2 := strconv.Atoi(strings.TrimSpace(t.Discs))
	if err1 == nil && err2 == nil && disc == 1 && discs == 1 {
		t.Disc = ""
		t.Discs = ""
	}
}

// padTrackNumbers zero-pads Track and Tracks. Tracks is padded to the
// minimum width first; Track is then padded to the wider of the
// minimum width and the padded Tracks length, so "42 of 150" becomes
// "042 of 150" rather than "42 of 150".
func (t *Tags) padTrackNumbers(minDigits int) {
	if minDigits < 1 {
		minDigits = 1
	}
	if t.Tracks != "" {
		t.Tracks = zeroPad(t.Tracks, minDigits)
	}
	if t.Track != "" {
		width := minDigits
		if len(t.Tracks) > width {
			width = len(t.Tracks)
		}
		t.Track = zeroPad(t.Track, width)
	}
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
