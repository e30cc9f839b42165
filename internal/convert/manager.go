package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alkatrazstudio/musbconv/internal/audio"
	"github.com/alkatrazstudio/musbconv/internal/config"
	"github.com/alkatrazstudio/musbconv/internal/covers"
	"github.com/alkatrazstudio/musbconv/internal/ffmpeg"
	"github.com/alkatrazstudio/musbconv/internal/format"
	"github.com/alkatrazstudio/musbconv/internal/ioutils"
	"github.com/alkatrazstudio/musbconv/internal/meta"
	"github.com/alkatrazstudio/musbconv/internal/scan"
	"github.com/alkatrazstudio/musbconv/internal/template"
)

// ProgressLevel classifies progress messages so front-ends can style
// and filter them.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a conversion progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager coordinates a conversion batch.
type Manager struct {
	settings *config.Settings
	format   format.Format
	template *template.Template
	runner   ffmpeg.Runner
	covers   *covers.Cache

	ffmpegBin  string
	ffprobeBin string

	jobs []*Job

	totalJobs    int32
	finishedJobs int32
	failedJobs   int32

	onProgress func(ProgressEvent)
}

// NewManager validates the settings and prepares a conversion batch.
//
// Setup failures are returned immediately, before anything is
// scanned: bad option ranges, an unknown output format, a template
// that does not compile or renders empty paths, and missing ffmpeg or
// ffprobe binaries.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) (*Manager, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	f, err := format.Parse(settings.OutputExt)
	if err != nil {
		return nil, err
	}

	tpl, err := template.Parse(settings.FilenameTemplate)
	if err != nil {
		return nil, fmt.Errorf("filename template: %w", err)
	}
	if err := tpl.Validate(); err != nil {
		return nil, fmt.Errorf("filename template: %w", err)
	}

	ffmpegBin, err := ffmpeg.Find(settings.FfmpegBin)
	if err != nil {
		return nil, err
	}
	ffprobeBin, err := ffmpeg.Find(settings.FfprobeBin)
	if err != nil {
		return nil, err
	}

	runner := ffmpeg.NewRunner()
	return &Manager{
		settings:   settings,
		format:     f,
		template:   tpl,
		runner:     runner,
		covers:     covers.NewCache(runner, ffmpegBin, settings.MaxPicWidth, settings.MaxPicHeight, settings.PicQuality),
		ffmpegBin:  ffmpegBin,
		ffprobeBin: ffprobeBin,
		onProgress: onProgress,
	}, nil
}

// Initialize scans the input directories and plans one job per track.
//
// Planning probes every input file once (CUE-expanded tracks share
// their file's probe), resolves tags, renders output paths and picks
// cover art. Output path collisions are detected here, before
// anything runs: the first job keeps the path, later jobs holding the
// same path get a pre-set error.
func (m *Manager) Initialize(ctx context.Context) error {
	items, err := scan.Find(scan.Options{
		InputDirs: m.settings.InputDirs,
		InputExts: m.settings.InputExts,
	}, func(msg string) {
		m.progress(ProgressEvent{Message: msg, Level: LevelWarning})
	})
	if err != nil {
		return err
	}

	probes := m.probeAll(ctx, items)

	jobs := make([]*Job, 0, len(items))
	outputs := make(map[string]*Job, len(items))
	for _, item := range items {
		job := &Job{
			ID:        uuid.NewString(),
			Index:     item.Index,
			Total:     item.Total,
			InputPath: item.Path,
			SheetPath: item.SheetPath,
			Cue:       item.Cue,
		}
		jobs = append(jobs, job)

		probe := probes[item.Path]
		if probe.err != nil {
			job.Err = fmt.Errorf("reading tags from %s: %w", item.Path, probe.err)
			continue
		}

		raw := meta.MergeRaw(probe.result.TagMaps()...)
		job.Tags = meta.Resolve(raw, overlayFor(item.Cue), item.Path, meta.ResolveOptions{
			MinTrackDigits: m.settings.MinTrackNumberDigits,
		})
		job.Seconds = playlistSeconds(probe.result.DurationSeconds(), item.Cue)

		rel, err := m.template.RenderPath(job.Tags)
		if err != nil {
			job.Err = fmt.Errorf("rendering output path for %s: %w", item.Path, err)
			continue
		}
		job.OutputPath = filepath.Join(m.settings.OutputDir, filepath.FromSlash(rel)) + "." + m.format.Ext()

		if prev, taken := outputs[job.OutputPath]; taken {
			job.Err = fmt.Errorf("output path %s already produced by %s", job.OutputPath, prev.InputPath)
			continue
		}
		outputs[job.OutputPath] = job

		job.Art = m.pickArt(ctx, job, probe.result)
	}

	m.jobs = jobs
	atomic.StoreInt32(&m.totalJobs, int32(len(jobs)))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Planned %d conversions", len(jobs)), Level: LevelInfo})
	return nil
}

type probeOutcome struct {
	result *ffmpeg.ProbeResult
	err    error
}

// probeAll runs ffprobe once per distinct input file, in parallel.
func (m *Manager) probeAll(ctx context.Context, items []scan.Item) map[string]probeOutcome {
	paths := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.Path] {
			seen[item.Path] = true
			paths = append(paths, item.Path)
		}
	}

	outcomes := make(map[string]probeOutcome, len(paths))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.threads())
	for _, path := range paths {
		g.Go(func() error {
			result, err := ffmpeg.Probe(gctx, m.runner, m.ffprobeBin, path)
			mu.Lock()
			outcomes[path] = probeOutcome{result: result, err: err}
			mu.Unlock()
			return nil // a failed probe fails its own jobs only
		})
	}
	_ = g.Wait()
	return outcomes
}

// pickArt chooses the cover art source for a job.
func (m *Manager) pickArt(ctx context.Context, job *Job, probe *ffmpeg.ProbeResult) ArtSource {
	if m.settings.UseEmbedPic {
		if ok, w, h := probe.EmbeddedArt(); ok {
			return ArtSource{
				Mode:      ArtEmbedded,
				Oversized: w > m.settings.MaxPicWidth || h > m.settings.MaxPicHeight,
			}
		}
	}

	path, found := covers.Find(filepath.Dir(job.InputPath), m.settings.CoverNames, m.settings.CoverExts)
	if !found {
		return ArtSource{Mode: ArtNone}
	}
	art, err := m.covers.Load(ctx, path)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] cover %s: %v; converting without art", job.Index, job.Total, path, err), Level: LevelWarning})
		return ArtSource{Mode: ArtNone}
	}
	return ArtSource{
		Mode:      ArtExternal,
		Path:      path,
		Oversized: !art.Within(m.settings.MaxPicWidth, m.settings.MaxPicHeight),
	}
}

// Run executes the planned jobs under the bounded worker pool.
//
// A job failure never cancels its siblings; every failure lands in
// the report instead. The returned error is non-nil only when the
// context was canceled, and the report then covers whatever finished
// before that.
func (m *Manager) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	results := make([]JobResult, len(m.jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.threads())
	for i, job := range m.jobs {
		g.Go(func() error {
			results[i] = m.runJob(gctx, job)
			m.finishJob(results[i])
			return nil // job errors stay in the result
		})
	}
	_ = g.Wait()

	if m.settings.Playlist && !m.settings.DryRun {
		m.writePlaylists(results)
	}

	return newReport(results, time.Since(started), m.settings.DryRun), ctx.Err()
}

func (m *Manager) runJob(ctx context.Context, job *Job) (res JobResult) {
	started := time.Now()
	res.Job = job
	defer func() { res.Elapsed = time.Since(started) }()

	if job.Err != nil {
		res.Err = job.Err
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	if !m.settings.Overwrite {
		if _, err := os.Stat(job.OutputPath); err == nil {
			res.Err = fmt.Errorf("file exists: %s", job.OutputPath)
			return res
		}
	}

	var stdin []byte
	if job.Art.Mode == ArtExternal && !m.settings.DryRun {
		data, err := m.externalArt(ctx, job.Art)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] cover %s: %v; converting without art", job.Index, job.Total, job.Art.Path, err), Level: LevelWarning})
			job.Art = ArtSource{Mode: ArtNone}
		} else {
			stdin = data
		}
	}

	args := m.buildArgs(job)
	cmdLevel := LevelVerbose
	if m.settings.DryRun {
		cmdLevel = LevelInfo
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] %s %s %s", job.Index, job.Total, job.ID, m.ffmpegBin, strings.Join(args, " ")), Level: cmdLevel})

	if m.settings.DryRun {
		return res
	}

	if err := ioutils.EnsureDir(filepath.Dir(job.OutputPath)); err != nil {
		res.Err = fmt.Errorf("creating output directory: %w", err)
		return res
	}

	if err := m.runner.Run(ctx, m.ffmpegBin, args, stdin); err != nil {
		res.Err = err
		return res
	}

	if m.settings.Id3Retag && m.format == format.MP3 {
		if err := audio.SaveTags(job.OutputPath, job.Tags, stdin); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] retagging %s: %v", job.Index, job.Total, job.OutputPath, err), Level: LevelWarning})
		}
	}

	return res
}

// externalArt fetches the bytes piped to ffmpeg for an external
// cover.
//
// mp3 outputs attach the piped image as-is, so oversized covers are
// pre-converted to a bounded JPEG once per cover file. ogg outputs
// re-encode the image to theora in the main invocation, so the
// original bytes are piped unchanged.
func (m *Manager) externalArt(ctx context.Context, art ArtSource) ([]byte, error) {
	if m.format == format.MP3 {
		return m.covers.Fitted(ctx, art.Path)
	}
	loaded, err := m.covers.Load(ctx, art.Path)
	if err != nil {
		return nil, err
	}
	return loaded.Data, nil
}

func (m *Manager) finishJob(res JobResult) {
	atomic.AddInt32(&m.finishedJobs, 1)
	if res.Err != nil {
		atomic.AddInt32(&m.failedJobs, 1)
		m.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] %s: %v", res.Job.Index, res.Job.Total, res.Job.InputPath, res.Err), Level: LevelError})
		return
	}
	if m.settings.DryRun {
		m.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] Would write: %s", res.Job.Index, res.Job.Total, res.Job.OutputPath), Level: LevelInfo})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] Converted: %s", res.Job.Index, res.Job.Total, res.Job.OutputPath), Level: LevelSuccess})
}

// writePlaylists drops one m3u8 into every directory that received
// converted files, in the batch's job order.
func (m *Manager) writePlaylists(results []JobResult) {
	entriesByDir := make(map[string][]audio.PlaylistEntry)
	var dirs []string
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		job := res.Job
		dir := filepath.Dir(job.OutputPath)
		if _, ok := entriesByDir[dir]; !ok {
			dirs = append(dirs, dir)
		}
		entriesByDir[dir] = append(entriesByDir[dir], audio.PlaylistEntry{
			Path:    job.OutputPath,
			Artist:  job.Tags.Artist,
			Title:   job.Tags.Title,
			Seconds: job.Seconds,
		})
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, "playlist.m3u8")
		content := audio.CreatePlaylist(entriesByDir[dir])
		if err := ioutils.WriteFile(path, []byte(content)); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error writing playlist %s: %v", path, err), Level: LevelWarning})
			continue
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist %s", path), Level: LevelSuccess})
	}
}

// Jobs returns the planned jobs after Initialize.
func (m *Manager) Jobs() []*Job {
	return m.jobs
}

// GetProgress returns the batch counters.
func (m *Manager) GetProgress() (finished, failed, total int32) {
	return atomic.LoadInt32(&m.finishedJobs), atomic.LoadInt32(&m.failedJobs), atomic.LoadInt32(&m.totalJobs)
}

func (m *Manager) threads() int {
	if m.settings.Threads > 0 {
		return m.settings.Threads
	}
	return runtime.NumCPU()
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
