package convert

import (
	"fmt"
	"slices"
	"time"
)

// JobResult is the outcome of a single job.
type JobResult struct {
	Job     *Job
	Err     error
	Elapsed time.Duration
}

// OK reports whether the job succeeded. In a dry run it means the
// job planned cleanly.
func (r JobResult) OK() bool { return r.Err == nil }

// Report summarizes a finished batch.
type Report struct {
	// Results holds one entry per job, in job order.
	Results []JobResult

	Converted int
	Failed    int

	// Elapsed is the batch wall time.
	Elapsed time.Duration

	// DryRun marks a report for a batch that only planned commands.
	DryRun bool
}

func newReport(results []JobResult, elapsed time.Duration, dryRun bool) *Report {
	report := &Report{Results: results, Elapsed: elapsed, DryRun: dryRun}
	for _, res := range results {
		if res.OK() {
			report.Converted++
		} else {
			report.Failed++
		}
	}
	return report
}

// Total returns the number of jobs in the batch.
func (r *Report) Total() int { return len(r.Results) }

// Failures returns the failed results in job order.
func (r *Report) Failures() []JobResult {
	var failures []JobResult
	for _, res := range r.Results {
		if !res.OK() {
			failures = append(failures, res)
		}
	}
	return failures
}

// OutputPaths returns the successfully produced paths, sorted.
func (r *Report) OutputPaths() []string {
	var paths []string
	for _, res := range r.Results {
		if res.OK() {
			paths = append(paths, res.Job.OutputPath)
		}
	}
	slices.Sort(paths)
	return paths
}

// Summary lines up the batch counts in one sentence.
func (r *Report) Summary() string {
	verb := "converted"
	if r.DryRun {
		verb = "planned"
	}
	return fmt.Sprintf("%d %s, %d failed, %d total in %s",
		r.Converted, verb, r.Failed, r.Total(), r.Elapsed.Round(time.Millisecond))
}
