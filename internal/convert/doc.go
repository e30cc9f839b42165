// Package convert plans and executes conversion batches.
//
// The Manager drives the whole pipeline:
//
//	manager, err := convert.NewManager(settings, onProgress)
//	// setup errors: bad options, unknown format, template errors,
//	// missing ffmpeg/ffprobe
//
//	err = manager.Initialize(ctx)
//	// scans inputs, probes tags, renders output paths, picks art
//
//	report, err := manager.Run(ctx)
//	// converts under the worker pool, returns the batch report
//
// # Planning
//
// Initialize turns every scanned track into a Job: ffprobe output is
// merged into raw tags, CUE data is overlaid, the fallback resolver
// fills the canonical tag set, and the filename template renders the
// output path. Two jobs rendering the same output path is an error
// for the second job; an unreadable input fails only its own job.
// All of it happens before any ffmpeg run, so a dry run sees the
// exact same decisions as a real one.
//
// # Execution
//
// Run pushes the jobs through an errgroup-bounded pool. Job failures
// are captured in the job's result and never cancel the batch;
// cancelling the context stops the pool between jobs. An output file
// that already exists fails the job unless overwriting is enabled.
// Cover art problems degrade to a warning and the track converts
// without art.
//
// # Progress
//
// The Manager reports through a callback of ProgressEvent values, at
// Info, Verbose, Warning, Error and Success levels. The CLI prints
// them; the TUI renders them live. GetProgress exposes finished and
// failed counters for polling.
package convert
