// Package cue parses CUE sheets and matches them to audio files.
//
// # Parsing
//
// Parse reads the subset of the CUE command set that carries track
// metadata:
//
//	sheet, err := cue.Parse(data)
//	for _, f := range sheet.Files {
//	    for _, trk := range f.Tracks {
//	        fmt.Printf("%02d %s @ %.2fs\n", trk.Number, trk.Title, trk.Start)
//	    }
//	}
//
// The parser is lenient by design: rips come with sheets written by
// many tools and people, so invalid UTF-8 is dropped, unknown commands
// are skipped and quoting is optional. Only a sheet without any audio
// tracks is rejected.
//
// # Matching
//
// FindSheet locates the sheet for an audio file by name ("album.cue"
// for "album.flac", or any sheet name containing the audio extension,
// like "album.flac.cue"). SelectTracks then picks the tracks that
// describe the file: a multi-track FILE entry marks a whole-album rip
// and expands into one TrackRef per track with INDEX 01 time ranges.
package cue
