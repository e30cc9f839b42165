package cue

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindSheet locates the CUE sheet for an audio file, if any.
//
// Candidates are .cue files in the audio file's directory. A sheet
// with the same base name ("album.flac" -> "album.cue") always wins.
// Otherwise any sheet whose name contains the audio file's extension
// ("album.flac.cue" and friends) matches; ties resolve in lexical
// order. All comparisons are case-insensitive.
func FindSheet(audioPath string) (string, bool) {
	dir := filepath.Dir(audioPath)
	base := filepath.Base(audioPath)
	ext := filepath.Ext(base)
	exactName := strings.TrimSuffix(base, ext) + ".cue"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".cue") {
			continue
		}
		if strings.EqualFold(name, exactName) {
			return filepath.Join(dir, name), true
		}
		if ext != "" && strings.Contains(strings.ToLower(name), strings.ToLower(ext)) {
			candidates = append(candidates, name)
		}
	}

	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	return filepath.Join(dir, candidates[0]), true
}

// TrackRef is one conversion-worthy track selected from a sheet,
// with its time range within the audio file.
type TrackRef struct {
	Sheet *Sheet
	File  *File
	Track *Track

	// Start is the track's offset in seconds into the audio file.
	Start float64

	// Duration is the track length in seconds; 0 means the track
	// plays to the end of the file.
	Duration float64

	// HasRange reports whether Start/Duration describe a slice of a
	// larger rip. False for a file that holds the whole track.
	HasRange bool
}

// SelectTracks picks the tracks of a sheet that apply to the given
// audio file name.
//
// The FILE entry whose declared name matches the audio file (exactly
// or by base name) is used; when none matches, the sheet's first FILE
// entry is assumed to describe the file. A multi-track FILE is a
// whole-album rip and yields one TrackRef per track, each with its
// INDEX 01 time range. A single-track FILE yields one TrackRef
// covering the whole file.
func SelectTracks(sheet *Sheet, audioName string) []TrackRef {
	file := matchFile(sheet, audioName)
	if file == nil || len(file.Tracks) == 0 {
		return nil
	}

	multi := len(file.Tracks) > 1
	refs := make([]TrackRef, 0, len(file.Tracks))
	for i, trk := range file.Tracks {
		ref := TrackRef{
			Sheet:    sheet,
			File:     file,
			Track:    trk,
			Start:    trk.Start,
			HasRange: multi,
		}
		if i+1 < len(file.Tracks) {
			next := file.Tracks[i+1]
			if next.Start > trk.Start {
				ref.Duration = next.Start - trk.Start
			}
		}
		refs = append(refs, ref)
	}
	return refs
}

// matchFile finds the FILE entry for an audio file name.
func matchFile(sheet *Sheet, audioName string) *File {
	audioBase := strings.TrimSuffix(audioName, filepath.Ext(audioName))
	for _, f := range sheet.Files {
		if strings.EqualFold(f.Name, audioName) {
			return f
		}
		base := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
		if strings.EqualFold(base, audioBase) {
			return f
		}
	}
	if len(sheet.Files) > 0 {
		return sheet.Files[0]
	}
	return nil
}
