package audio

import (
	"fmt"
	"net/http"

	"github.com/bogem/id3v2"

	"github.com/alkatrazstudio/musbconv/internal/meta"
)

// SaveTags rewrites the ID3v2.4 tag of a converted MP3 file from the
// canonical tag set.
//
// ffmpeg already writes a tag during conversion; this pass replaces
// it with frames built directly from the resolved tags, which keeps
// the output consistent with the template-visible values. Only
// non-empty fields produce frames. Source files are never touched,
// SaveTags runs on conversion outputs only.
//
// When artwork is non-nil it is embedded as the front cover picture,
// replacing any picture ffmpeg attached.
func SaveTags(path string, tags meta.Tags, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("opening %s for tagging: %w", path, err)
	}
	defer tag.Close()

	setText := func(id, value string) {
		if value != "" {
			tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
		}
	}

	if tags.Title != "" {
		tag.SetTitle(tags.Title)
	}
	if tags.Artist != "" {
		tag.SetArtist(tags.Artist)
	}
	if tags.Album != "" {
		tag.SetAlbum(tags.Album)
	}
	if tags.Genre != "" {
		tag.SetGenre(tags.Genre)
	}

	// TDRC is the ID3v2.4 recording time frame; Date carries at
	// least the year after resolution.
	setText("TDRC", tags.Date)
	setText("TRCK", tags.TrackNumber())
	setText("TPOS", tags.DiscNumber())
	setText("TCOM", tags.Composer)
	setText("TEXT", tags.Lyricist)

	// TPUB is the only publisher frame; the label fills it when no
	// dedicated publisher tag exists.
	publisher := tags.Publisher
	if publisher == "" {
		publisher = tags.Label
	}
	setText("TPUB", publisher)

	if tags.Comment != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "",
			Text:        tags.Comment,
		})
	}

	if artwork != nil {
		embedArtwork(tag, artwork)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("saving tags to %s: %w", path, err)
	}
	return nil
}

// embedArtwork replaces any attached pictures with a single front
// cover frame.
func embedArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    http.DetectContentType(artwork),
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
