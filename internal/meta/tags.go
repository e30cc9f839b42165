package meta

// Tags is the canonical per-track metadata view.
//
// Every track that reaches the conversion pipeline carries a fully
// resolved Tags value: raw container tags are merged, CUE sheet data is
// overlaid, and the fallback chains are applied, so consumers never have
// to guess where a value came from. The same Tags value drives both
// output path templating and output file tagging.
//
// Example:
//
//	raw := meta.RawTags{"artist": "Moby", "title": "Porcelain"}
//	tags := meta.Resolve(raw, nil, "/music/play/01.flac", meta.ResolveOptions{MinTrackDigits: 2})
//	// tags.Artist = "Moby", tags.Title = "Porcelain"
//	// tags.FileBase = "01", tags.DirName = "play"
type Tags struct {
	// Album is the album title. Falls back to the input file's
	// parent directory name.
	Album string

	// Artist is the primary display artist. Extracted from the first
	// non-empty of the albumartist, artist and artists raw tags.
	Artist string

	// Author is the work's author, falling back to Artist.
	Author string

	// Composer, Lyricist and Songwriter form a mutual fallback group:
	// setting any one of them populates the other two, and when the
	// whole group is empty all three fall back to Artist.
	Composer   string
	Lyricist   string
	Songwriter string

	// Performer is the performing artist. A CUE sheet PERFORMER
	// overrides both Performer and Artist.
	Performer string

	// Title is the track title. Falls back to FileBase.
	Title string

	// Genre is the musical genre, possibly from a REM GENRE CUE line.
	Genre string

	// Comment is the free-form comment tag.
	Comment string

	// Date is the release date string as found in the tags.
	// Backfilled from Year when empty.
	Date string

	// Year is the release year. Backfilled from the leading four
	// digits of Date when empty.
	Year string

	// Track is the track number, zero-padded for use in file names.
	Track string

	// Tracks is the total track count, zero-padded like Track.
	Tracks string

	// Disc and Discs are the disc number and disc count. A "1 of 1"
	// pair is cleared so single-disc albums produce no disc path
	// segment.
	Disc  string
	Discs string

	// Label is the record label name.
	Label string

	// Publisher is the publishing company.
	Publisher string

	// CatalogNumber is the release catalog number (CATALOG in CUE
	// sheets, catalognumber in container tags).
	CatalogNumber string

	// DiscID is the CD disc id (REM DISCID).
	DiscID string

	// FileName is the input file name with its extension but without
	// the directory path. Always populated.
	FileName string

	// DirName is the name of the input file's parent directory.
	// Always populated.
	DirName string

	// FileBase is the input file name without directory or extension.
	// Always populated.
	FileBase string

	// FileExt is the input file extension without the leading dot.
	FileExt string
}

// fieldNames lists the template-visible field names in a fixed order.
// The order is also the order Metadata emits key/value pairs in.
var fieldNames = []string{
	"album",
	"artist",
	"author",
	"composer",
	"lyricist",
	"songwriter",
	"performer",
	"title",
	"genre",
	"comment",
	"date",
	"year",
	"track",
	"tracks",
	"disc",
	"discs",
	"label",
	"publisher",
	"catalog_number",
	"disc_id",
	"file_name",
	"dir_name",
	"file_base",
	"file_ext",
}

// FieldNames returns the names usable in path templates.
func FieldNames() []string {
	names := make([]string, len(fieldNames))
	copy(names, fieldNames)
	return names
}

// IsField reports whether name is a valid template field name.
func IsField(name string) bool {
	_, ok := zeroTags.fieldRef(name)
	return ok
}

var zeroTags Tags

// Field returns the value of the named field and whether the name is valid.
func (t Tags) Field(name string) (string, bool) {
	ref, ok := t.fieldRef(name)
	if !ok {
		return "", false
	}
	return *ref, true
}

// fieldRef maps a template field name to the backing struct field.
func (t *Tags) fieldRef(name string) (*string, bool) {
	switch name {
	case "album":
		return &t.Album, true
	case "artist":
		return &t.Artist, true
	case "author":
		return &t.Author, true
	case "composer":
		return &t.Composer, true
	case "lyricist":
		return &t.Lyricist, true
	case "songwriter":
		return &t.Songwriter, true
	case "performer":
		return &t.Performer, true
	case "title":
		return &t.Title, true
	case "genre":
		return &t.Genre, true
	case "comment":
		return &t.Comment, true
	case "date":
		return &t.Date, true
	case "year":
		return &t.Year, true
	case "track":
		return &t.Track, true
	case "tracks":
		return &t.Tracks, true
	case "disc":
		return &t.Disc, true
	case "discs":
		return &t.Discs, true
	case "label":
		return &t.Label, true
	case "publisher":
		return &t.Publisher, true
	case "catalog_number":
		return &t.CatalogNumber, true
	case "disc_id":
		return &t.DiscID, true
	case "file_name":
		return &t.FileName, true
	case "dir_name":
		return &t.DirName, true
	case "file_base":
		return &t.FileBase, true
	case "file_ext":
		return &t.FileExt, true
	}
	return nil, false
}

// Filled returns a Tags value with every field set to v.
// Used to build probe tag sets for template validation.
func Filled(v string) Tags {
	var t Tags
	for _, name := range fieldNames {
		ref, _ := t.fieldRef(name)
		*ref = v
	}
	return t
}

// KV is a single metadata key/value pair for the output file.
type KV struct {
	Key   string
	Value string
}

// Metadata returns the key/value pairs to write into the output file.
//
// Only non-empty fields are emitted. The path helpers (FileName,
// DirName, FileBase, FileExt) are never emitted. Track and disc
// numbers are written unpadded, as "N/M" when the total is known.
func (t Tags) Metadata() []KV {
	var kvs []KV
	add := func(key, value string) {
		if value != "" {
			kvs = append(kvs, KV{Key: key, Value: value})
		}
	}

	add("album", t.Album)
	add("artist", t.Artist)
	add("author", t.Author)
	add("composer", t.Composer)
	add("lyricist", t.Lyricist)
	add("songwriter", t.Songwriter)
	add("performer", t.Performer)
	add("title", t.Title)
	add("genre", t.Genre)
	add("comment", t.Comment)
	add("date", t.Date)
	add("track", numberOf(t.Track, t.Tracks))
	add("disc", numberOf(t.Disc, t.Discs))
	add("label", t.Label)
	add("publisher", t.Publisher)
	add("catalog_number", t.CatalogNumber)
	add("disc_id", t.DiscID)

	return kvs
}

// TrackNumber returns the unpadded track value, as "N/M" when the
// total is known. Empty when the track number is unknown.
func (t Tags) TrackNumber() string {
	return numberOf(t.Track, t.Tracks)
}

// DiscNumber returns the unpadded disc value, as "N/M" when the
// total is known. Empty when the disc number is unknown.
func (t Tags) DiscNumber() string {
	return numberOf(t.Disc, t.Discs)
}

// numberOf formats a number/total pair with padding zeros removed.
func numberOf(number, total string) string {
	if number == "" {
		return ""
	}
	if total == "" {
		return trimLeadingZeros(number)
	}
	return trimLeadingZeros(number) + "/" + trimLeadingZeros(total)
}

// trimLeadingZeros removes padding zeros from a numeric string.
// Non-numeric strings are returned unchanged.
func trimLeadingZeros(s string) string {
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}
	trimmed := s
	for len(trimmed) > 1 && trimmed[0] == '0' {
		trimmed = trimmed[1:]
	}
	return trimmed
}
