package convert

import (
	"strconv"

	"github.com/alkatrazstudio/musbconv/internal/cue"
	"github.com/alkatrazstudio/musbconv/internal/format"
	"github.com/alkatrazstudio/musbconv/internal/meta"
)

// ArtMode says where a job's cover art comes from.
type ArtMode int

const (
	// ArtNone attaches no cover art.
	ArtNone ArtMode = iota

	// ArtEmbedded reuses the picture stream embedded in the source
	// file.
	ArtEmbedded

	// ArtExternal pipes an image file found next to the source into
	// ffmpeg as a second input.
	ArtExternal
)

// ArtSource describes the cover art chosen for a job.
type ArtSource struct {
	Mode ArtMode

	// Path is the external cover file. Empty unless Mode is
	// ArtExternal.
	Path string

	// Oversized reports that the art exceeds the configured bounds
	// and needs scaling or pre-conversion.
	Oversized bool
}

// Job is one planned conversion.
type Job struct {
	// ID names the job in verbose logs and the failure report.
	ID string

	// Index and Total position the job in the batch, 1-based.
	Index int
	Total int

	InputPath  string
	OutputPath string

	// SheetPath and Cue are set when the job came from a CUE sheet.
	SheetPath string
	Cue       *cue.TrackRef

	Tags meta.Tags
	Art  ArtSource

	// Seconds is the track's play time, for playlist generation.
	Seconds float64

	// Err is a planning failure (unreadable tags, bad template
	// render, output collision). A job with a pre-set error is
	// reported without running ffmpeg.
	Err error
}

// overlayFor converts a CUE track reference into the resolver's
// overlay form.
func overlayFor(ref *cue.TrackRef) *meta.Overlay {
	if ref == nil {
		return nil
	}
	sheet := ref.Sheet
	return &meta.Overlay{
		Album:         sheet.Title,
		Title:         ref.Track.Title,
		Performer:     sheet.TrackPerformer(ref.Track),
		Songwriter:    sheet.TrackSongwriter(ref.Track),
		Genre:         sheet.Genre,
		Date:          sheet.Date,
		DiscID:        sheet.DiscID,
		CatalogNumber: sheet.Catalog,
		Track:         strconv.Itoa(ref.Track.Number),
		Tracks:        strconv.Itoa(sheet.TrackCount()),
	}
}

// playlistSeconds derives a job's play time from the probed file
// duration and its CUE range.
func playlistSeconds(fileSeconds float64, ref *cue.TrackRef) float64 {
	if ref == nil {
		return fileSeconds
	}
	if ref.Duration > 0 {
		return ref.Duration
	}
	if fileSeconds > ref.Start {
		return fileSeconds - ref.Start
	}
	return 0
}

// formatSeconds renders a CUE offset the way it is passed to ffmpeg.
func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

// buildArgs assembles the full ffmpeg invocation for a job.
//
// The argument list is identical between dry runs and real runs; for
// external art the piped bytes are the only difference.
func (m *Manager) buildArgs(job *Job) []string {
	args := []string{"-hide_banner", "-nostats", "-loglevel", "warning", "-y"}

	if job.Cue != nil {
		args = append(args, "-ss:a", formatSeconds(job.Cue.Start))
		if job.Cue.Duration > 0 {
			args = append(args, "-t:a", formatSeconds(job.Cue.Duration))
		}
	}

	args = append(args, "-i", job.InputPath)
	if job.Art.Mode == ArtExternal {
		args = append(args, "-i", "-", "-map", "0:a", "-map", "1:v")
	}

	args = append(args, m.format.AudioArgs()...)

	if job.Art.Mode != ArtNone {
		args = append(args, m.artArgs(job.Art)...)
		args = append(args,
			"-metadata:s:v", "title=Album cover",
			"-metadata:s:v", "comment=Cover (front)")
	}

	args = append(args, "-map_metadata", "-1")
	for _, kv := range job.Tags.Metadata() {
		args = append(args, "-metadata", kv.Key+"="+kv.Value)
	}

	args = append(args, m.settings.FfmpegArgs...)
	args = append(args, job.OutputPath)
	return args
}

// artArgs yields the video stream arguments for the chosen art.
//
// mp3 attached pictures are stream-copied whenever the incoming art
// already fits the bounds; external covers always fit because
// oversized ones are pre-converted before piping. ogg containers
// cannot carry the source picture codec, so theora re-encoding always
// happens there, scaling inline when the art is too large.
func (m *Manager) artArgs(art ArtSource) []string {
	if m.format == format.MP3 {
		if art.Mode == ArtEmbedded && art.Oversized {
			args := []string{"-c:v", m.format.ArtCodec(), "-vf", m.scaleFilter()}
			return append(args, m.format.QualityArgs(m.settings.PicQuality)...)
		}
		return []string{"-c:v", "copy"}
	}

	args := []string{"-c:v", m.format.ArtCodec()}
	if art.Oversized {
		args = append(args, "-vf", m.scaleFilter())
	}
	return append(args, m.format.QualityArgs(m.settings.PicQuality)...)
}

func (m *Manager) scaleFilter() string {
	return format.ScaleFilter(m.settings.MaxPicWidth, m.settings.MaxPicHeight)
}
