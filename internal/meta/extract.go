package meta

import (
	"regexp"
	"sort"
	"strings"
)

// RawTags is the normalized key/value tag map extracted from a
// container. Keys are normalized with NormalizeKey, values are
// whitespace-trimmed and never empty.
type RawTags map[string]string

var nonLetterRe = regexp.MustCompile(`[^a-z]+`)

// NormalizeKey lowercases a raw tag key and strips every non-letter
// rune, so "ALBUMARTIST", "album_artist" and "AlbumArtist" all
// normalize to "albumartist".
func NormalizeKey(key string) string {
	return nonLetterRe.ReplaceAllString(strings.ToLower(key), "")
}

// MergeRaw merges tag maps into a single RawTags.
//
// Within each map, keys are visited in case-insensitive order with a
// byte-wise tiebreak, so the merge does not depend on map iteration
// order. Later maps overwrite earlier ones; in practice the format
// tags come first and stream tags override them. Empty values are
// dropped.
func MergeRaw(maps ...map[string]string) RawTags {
	merged := make(RawTags)
	for _, m := range maps {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			li, lj := strings.ToLower(keys[i]), strings.ToLower(keys[j])
			if li != lj {
				return li < lj
			}
			return keys[i] < keys[j]
		})

		for _, k := range keys {
			value := strings.TrimSpace(m[k])
			if value == "" {
				continue
			}
			normalized := NormalizeKey(k)
			if normalized == "" {
				continue
			}
			merged[normalized] = value
		}
	}
	return merged
}

// first returns the value of the first present key.
func (r RawTags) first(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return v
		}
	}
	return ""
}

var trackOfTotalRe = regexp.MustCompile(`^(\d+)/(\d+)$`)

// fromRaw maps normalized raw tags onto the canonical fields.
//
// Each canonical field takes the first non-empty value from its raw
// key list. A track value of the form "N/M" is split into the track
// number and the track total; the split total fills Tracks only when
// no dedicated total tag was present.
func fromRaw(raw RawTags) Tags {
	t := Tags{
		Album:         raw.first("album"),
		Artist:        raw.first("albumartist", "artist", "artists"),
		Author:        raw.first("author"),
		Composer:      raw.first("composer"),
		Lyricist:      raw.first("lyricist"),
		Songwriter:    raw.first("songwriter"),
		Performer:     raw.first("performer"),
		Title:         raw.first("title"),
		Genre:         raw.first("genre"),
		Comment:       raw.first("comment"),
		Date:          raw.first("date", "originaldate", "originalreleasedate"),
		Year:          raw.first("year"),
		Track:         raw.first("track"),
		Tracks:        raw.first("tracktotal", "totaltracks"),
		Disc:          raw.first("disc"),
		Discs:         raw.first("disctotal", "totaldiscs"),
		Label:         raw.first("label"),
		Publisher:     raw.first("publisher"),
		CatalogNumber: raw.first("catalog", "catalognumber"),
		DiscID:        raw.first("discid"),
	}

	if m := trackOfTotalRe.FindStringSubmatch(t.Track); m != nil {
		t.Track = m[1]
		if t.Tracks == "" {
			t.Tracks = m[2]
		}
	}

	return t
}
