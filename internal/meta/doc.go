// Package meta defines the canonical track metadata model and the
// resolver that produces it.
//
// # Raw Tags
//
// Raw tags come out of the container via ffprobe as one map per
// format/stream section. MergeRaw normalizes the keys and merges the
// maps deterministically:
//
//	raw := meta.MergeRaw(probe.TagMaps()...)
//	// {"ALBUM_ARTIST": "x"} and {"albumartist": "x"} land on the same key
//
// # Canonical Tags
//
// Resolve turns raw tags into the canonical Tags view used by both the
// path template and the output tagger:
//
//	tags := meta.Resolve(raw, overlay, "/music/rips/01 - Intro.flac",
//	    meta.ResolveOptions{MinTrackDigits: 2})
//
// Resolution runs in a fixed order:
//
//  1. Raw keys map onto canonical fields (first non-empty wins,
//     "N/M" track values split).
//  2. CUE sheet values overlay the extracted ones.
//  3. Fallback chains fill the gaps: title from the file name, album
//     from the directory, artist/author/performer from each other,
//     year from date, and the composer/lyricist/songwriter group from
//     each other or the artist.
//  4. A numeric "disc 1 of 1" pair is cleared.
//  5. Track numbers are zero-padded for stable file name sorting.
//
// Every field of the result is deterministic: the same inputs always
// produce the same Tags, byte for byte.
package meta
