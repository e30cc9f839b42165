package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProbeResult is the decoded ffprobe output for one media file.
type ProbeResult struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
}

// ProbeFormat is the container-level section of a probe.
type ProbeFormat struct {
	Duration string            `json:"duration"`
	Tags     map[string]string `json:"tags"`
}

// ProbeStream is one stream section of a probe.
type ProbeStream struct {
	CodecType string            `json:"codec_type"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Tags      map[string]string `json:"tags"`
}

// Probe runs ffprobe on a file and decodes its JSON report.
func Probe(ctx context.Context, runner Runner, bin, path string) (*ProbeResult, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	out, err := runner.Output(ctx, bin, args)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", path, err)
	}

	var result ProbeResult
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("decoding probe of %s: %w", path, err)
	}
	return &result, nil
}

// TagMaps returns the tag maps of the probe in merge order: the
// container tags first, then each audio stream's tags. Video streams
// are attached pictures; their title/comment cover markers are not
// track metadata.
func (r *ProbeResult) TagMaps() []map[string]string {
	maps := make([]map[string]string, 0, len(r.Streams)+1)
	if len(r.Format.Tags) > 0 {
		maps = append(maps, r.Format.Tags)
	}
	for _, s := range r.Streams {
		if s.CodecType != "audio" {
			continue
		}
		if len(s.Tags) > 0 {
			maps = append(maps, s.Tags)
		}
	}
	return maps
}

// DurationSeconds returns the container duration, or 0 when unknown.
func (r *ProbeResult) DurationSeconds() float64 {
	d, err := strconv.ParseFloat(strings.TrimSpace(r.Format.Duration), 64)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// coverComment marks a video stream as embedded front cover art.
// ffmpeg writes it when attaching covers, and rippers follow suit.
const coverComment = "Cover (front)"

// EmbeddedArt reports whether the file carries embedded front cover
// art, with its pixel dimensions when known.
func (r *ProbeResult) EmbeddedArt() (ok bool, width, height int) {
	for _, s := range r.Streams {
		if s.CodecType != "video" {
			continue
		}
		for key, value := range s.Tags {
			if strings.EqualFold(key, "comment") && value == coverComment {
				return true, s.Width, s.Height
			}
		}
	}
	return false, 0, 0
}
