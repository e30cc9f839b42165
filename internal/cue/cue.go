package cue

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// framesPerSecond is the CD frame rate used by INDEX timestamps.
const framesPerSecond = 75

// Sheet is a parsed CUE sheet.
//
// Only the commands the converter consumes are retained: sheet-level
// metadata (TITLE, PERFORMER, SONGWRITER, CATALOG and the REM
// GENRE/DATE/DISCID lines), the FILE entries and their audio TRACK
// blocks. Everything else in the sheet is ignored.
type Sheet struct {
	Title      string
	Performer  string
	Songwriter string
	Catalog    string

	// REM fields.
	Genre  string
	Date   string
	DiscID string

	Files []*File
}

// File is one FILE entry of a sheet with its audio tracks.
type File struct {
	// Name is the audio file name as declared in the sheet.
	Name string

	Tracks []*Track
}

// Track is one audio TRACK block.
type Track struct {
	// Number is the track number as declared in the sheet.
	Number int

	Title      string
	Performer  string
	Songwriter string

	// Start is the INDEX 01 offset in seconds from the beginning of
	// the FILE entry.
	Start float64
}

// TrackCount returns the number of audio tracks across all FILE
// entries.
func (s *Sheet) TrackCount() int {
	n := 0
	for _, f := range s.Files {
		n += len(f.Tracks)
	}
	return n
}

// TrackPerformer returns the track performer, falling back to the
// sheet-level PERFORMER.
func (s *Sheet) TrackPerformer(t *Track) string {
	if t.Performer != "" {
		return t.Performer
	}
	return s.Performer
}

// TrackSongwriter returns the track songwriter, falling back to the
// sheet-level SONGWRITER.
func (s *Sheet) TrackSongwriter(t *Track) string {
	if t.Songwriter != "" {
		return t.Songwriter
	}
	return s.Songwriter
}

// Parse reads a CUE sheet.
//
// The parse is deliberately lenient: invalid UTF-8 bytes are dropped,
// unknown commands are skipped, FLAGS lines are ignored, and values
// may or may not be quoted. A sheet that declares no audio tracks is
// an error.
func Parse(data []byte) (*Sheet, error) {
	data = bytes.ToValidUTF8(data, nil)
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	sheet := &Sheet{}
	var curFile *File
	var curTrack *Track
	// Tracks outside any TRACK block apply to the sheet; TITLE inside
	// a TRACK block applies to that track.

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		command, rest := splitCommand(line)
		switch strings.ToUpper(command) {
		case "REM":
			sub, value := splitCommand(rest)
			switch strings.ToUpper(sub) {
			case "GENRE":
				sheet.Genre = unquote(value)
			case "DATE":
				sheet.Date = unquote(value)
			case "DISCID":
				sheet.DiscID = unquote(value)
			}

		case "CATALOG":
			sheet.Catalog = unquote(rest)

		case "TITLE":
			if curTrack != nil {
				curTrack.Title = unquote(rest)
			} else {
				sheet.Title = unquote(rest)
			}

		case "PERFORMER":
			if curTrack != nil {
				curTrack.Performer = unquote(rest)
			} else {
				sheet.Performer = unquote(rest)
			}

		case "SONGWRITER":
			if curTrack != nil {
				curTrack.Songwriter = unquote(rest)
			} else {
				sheet.Songwriter = unquote(rest)
			}

		case "FILE":
			curFile = &File{Name: fileName(rest)}
			curTrack = nil
			sheet.Files = append(sheet.Files, curFile)

		case "TRACK":
			number, mode := splitCommand(rest)
			curTrack = nil
			if curFile == nil || !strings.EqualFold(strings.TrimSpace(mode), "AUDIO") {
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(number))
			if err != nil {
				continue
			}
			curTrack = &Track{Number: n}
			curFile.Tracks = append(curFile.Tracks, curTrack)

		case "INDEX":
			if curTrack == nil {
				continue
			}
			idx, stamp := splitCommand(rest)
			if strings.TrimSpace(idx) != "01" {
				continue
			}
			if sec, err := parseFrameTime(strings.TrimSpace(stamp)); err == nil {
				curTrack.Start = sec
			}

		case "FLAGS":
			// Subcode flags carry no metadata.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cue sheet: %w", err)
	}

	if sheet.TrackCount() == 0 {
		return nil, fmt.Errorf("cue sheet declares no audio tracks")
	}
	return sheet, nil
}

// splitCommand splits off the first whitespace-separated word.
func splitCommand(line string) (command, rest string) {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i == -1 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

// unquote trims surrounding double quotes if present.
func unquote(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	return value
}

// fileName extracts the file name from a FILE argument, dropping the
// trailing type word (WAVE, MP3, BINARY, ...).
func fileName(rest string) string {
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, `"`) {
		if end := strings.Index(rest[1:], `"`); end != -1 {
			return rest[1 : end+1]
		}
		return unquote(rest)
	}
	// Unquoted: the last word is the file type.
	if i := strings.LastIndexAny(rest, " \t"); i != -1 {
		return strings.TrimSpace(rest[:i])
	}
	return rest
}

// parseFrameTime converts an INDEX "mm:ss:ff" stamp to seconds.
// Minutes may exceed 59 on long discs.
func parseFrameTime(stamp string) (float64, error) {
	parts := strings.Split(stamp, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed index time %q", stamp)
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed index time %q", stamp)
	}
	s, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed index time %q", stamp)
	}
	f, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("malformed index time %q", stamp)
	}
	return float64(m)*60 + float64(s) + float64(f)/framesPerSecond, nil
}
