// Package scan discovers the input files of a batch: it walks the
// input directories, filters by extension, matches CUE sheets and
// expands whole-album rips into per-track work items.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/alkatrazstudio/musbconv/internal/cue"
)

// Item is one unit of conversion work: an input file, or one CUE
// track of an input file.
type Item struct {
	// Path is the audio input file.
	Path string

	// Index is the item's 1-based position in the batch; Total is the
	// batch size. Both are stamped after ordering, for progress
	// prefixes like "[3/17]".
	Index int
	Total int

	// Cue is the matched CUE track, nil when the file has no sheet.
	Cue *cue.TrackRef

	// SheetPath is the matched sheet file, for diagnostics.
	SheetPath string
}

// Options controls discovery.
type Options struct {
	// InputDirs are the directories to walk. Each must exist.
	InputDirs []string

	// InputExts is the case-insensitive extension allow-list,
	// without dots.
	InputExts []string
}

// Find walks the input directories and returns the batch's work
// items in deterministic order.
//
// A matched sheet that fails to parse is reported through warn and
// the file converts without CUE data; a broken sheet next to one rip
// must not sink the batch. An empty batch is an error: zero items
// silently succeeding hides a mistyped directory or extension list.
func Find(opts Options, warn func(msg string)) ([]Item, error) {
	exts := make(map[string]bool, len(opts.InputExts))
	for _, e := range opts.InputExts {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}

	var files []string
	for _, dir := range opts.InputDirs {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("input dir %s: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("input dir %s: not a directory", dir)
		}

		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
			if exts[ext] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", dir, err)
		}
	}

	var items []Item
	for _, path := range files {
		items = append(items, expand(path, warn)...)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no input files found (dirs: %s; extensions: %s)",
			strings.Join(opts.InputDirs, ", "), strings.Join(opts.InputExts, ", "))
	}

	orderItems(items)
	for i := range items {
		items[i].Index = i + 1
		items[i].Total = len(items)
	}
	return items, nil
}

// expand turns one audio file into its work items, consulting a CUE
// sheet when one matches.
func expand(path string, warn func(msg string)) []Item {
	sheetPath, ok := cue.FindSheet(path)
	if !ok {
		return []Item{{Path: path}}
	}

	data, err := os.ReadFile(sheetPath)
	if err != nil {
		warn(fmt.Sprintf("cannot read cue sheet %s: %v", sheetPath, err))
		return []Item{{Path: path}}
	}
	sheet, err := cue.Parse(data)
	if err != nil {
		warn(fmt.Sprintf("ignoring cue sheet %s: %v", sheetPath, err))
		return []Item{{Path: path}}
	}

	refs := cue.SelectTracks(sheet, filepath.Base(path))
	if len(refs) == 0 {
		warn(fmt.Sprintf("cue sheet %s has no tracks for %s", sheetPath, filepath.Base(path)))
		return []Item{{Path: path}}
	}

	items := make([]Item, 0, len(refs))
	for i := range refs {
		items = append(items, Item{Path: path, Cue: &refs[i], SheetPath: sheetPath})
	}
	return items
}

// orderItems sorts items naturally by input base name, so "2.flac"
// precedes "10.flac". CUE tracks of one file keep sheet order.
func orderItems(items []Item) {
	coll := collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
	slices.SortStableFunc(items, func(a, b Item) int {
		if r := coll.CompareString(filepath.Base(a.Path), filepath.Base(b.Path)); r != 0 {
			return r
		}
		if r := strings.Compare(a.Path, b.Path); r != 0 {
			return r
		}
		return trackNumber(a) - trackNumber(b)
	})
}

func trackNumber(it Item) int {
	if it.Cue == nil {
		return 0
	}
	return it.Cue.Track.Number
}
