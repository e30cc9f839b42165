// Package ffmpeg is the client for the external ffmpeg and ffprobe
// binaries.
//
// The converter never decodes or encodes audio itself; every media
// operation goes through a Runner:
//
//	runner := ffmpeg.NewRunner()
//
//	// Metadata extraction
//	probe, err := ffmpeg.Probe(ctx, runner, "ffprobe", "/music/in.flac")
//
//	// Transcoding
//	err = runner.Run(ctx, "ffmpeg", args, coverBytes)
//
// Binaries are resolved once at startup with Find: an explicit path
// must exist, a bare name goes through PATH. Failures are setup
// errors, reported before the batch starts.
//
// Errors from a non-zero exit carry the tool's stderr text, which is
// where ffmpeg explains itself.
package ffmpeg
