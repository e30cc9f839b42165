package audio

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// PlaylistEntry is one converted track in an output directory.
type PlaylistEntry struct {
	// Path is the converted file's path. Only the base name ends up
	// in the playlist; the playlist sits in the same directory.
	Path string

	Artist string
	Title  string

	// Seconds is the track duration. Zero when the source duration
	// was unknown.
	Seconds float64
}

// CreatePlaylist generates extended M3U content for the tracks of one
// output directory.
//
// Format:
//
//	#EXTM3U
//	#EXTINF:180,Artist - Title
//	01 of 10 - Title.mp3
//
// Entries appear in the given order, which follows the batch's job
// order.
func CreatePlaylist(entries []PlaylistEntry) string {
	var sb strings.Builder

	sb.WriteString("#EXTM3U\n")
	for _, entry := range entries {
		seconds := int(math.Round(entry.Seconds))
		sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", seconds, entry.Artist, entry.Title))
		sb.WriteString(filepath.Base(entry.Path) + "\n")
	}

	return sb.String()
}
