// Package covers locates album art on disk and prepares it for
// embedding.
//
// External covers are discovered by matching directory entries
// against configurable base-name and extension allow-lists, so a
// conventional folder.jpg or cover.png next to the audio files is
// picked up automatically. Images already within the configured
// bounds are embedded as-is; larger ones are downscaled through
// ffmpeg. A process-wide cache keys conversions by source path, so an
// album directory shares one conversion across all of its tracks.
package covers
