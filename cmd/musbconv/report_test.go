package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alkatrazstudio/musbconv/internal/convert"
)

func TestRenderOutputTree(t *testing.T) {
	root := filepath.Join("/music", "out")
	paths := []string{
		filepath.Join(root, "Moby", "Play", "01 - Honey.mp3"),
		filepath.Join(root, "Queen", "Jazz", "01 - Mustapha.mp3"),
		filepath.Join(root, "Queen", "Jazz", "02 - Fat Bottomed Girls.mp3"),
	}

	tree := renderOutputTree(root, paths)
	wants := []string{
		root,
		filepath.Join("Moby", "Play"),
		filepath.Join("Queen", "Jazz"),
		"01 - Honey.mp3",
		"02 - Fat Bottomed Girls.mp3",
	}
	for _, want := range wants {
		if !strings.Contains(tree, want) {
			t.Errorf("tree missing %q:\n%s", want, tree)
		}
	}
	if moby, queen := strings.Index(tree, "Moby"), strings.Index(tree, "Queen"); moby > queen {
		t.Errorf("directories not sorted:\n%s", tree)
	}
}

func TestRenderOutputTreeEmpty(t *testing.T) {
	if got := renderOutputTree("/out", nil); got != "" {
		t.Errorf("renderOutputTree(no paths) = %q, want empty", got)
	}
}

func TestRenderFailures(t *testing.T) {
	if got := renderFailures(nil); got != "" {
		t.Errorf("renderFailures(nil) = %q, want empty", got)
	}

	failures := []convert.JobResult{{
		Job: &convert.Job{Index: 3, Total: 17, InputPath: "/in/broken.flac"},
		Err: errors.New("Invalid data found when processing input"),
	}}
	out := renderFailures(failures)
	for _, want := range []string{"3/17", "/in/broken.flac", "Invalid data"} {
		if !strings.Contains(out, want) {
			t.Errorf("failure table missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReport(t *testing.T) {
	root := filepath.Join("/music", "out")
	results := []convert.JobResult{
		{Job: &convert.Job{
			Index: 1, Total: 2,
			InputPath:  "/in/a.flac",
			OutputPath: filepath.Join(root, "Artist", "Album", "a.mp3"),
		}},
		{Job: &convert.Job{
			Index: 2, Total: 2,
			InputPath: "/in/b.flac",
		}, Err: errors.New("encoder exploded")},
	}
	report := &convert.Report{
		Results:   results,
		Converted: 1,
		Failed:    1,
		Elapsed:   1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	printReport(&buf, root, report)
	out := buf.String()
	for _, want := range []string{"a.mp3", "encoder exploded", "1 converted, 1 failed, 2 total in 1.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
