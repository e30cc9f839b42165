package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/alkatrazstudio/musbconv/internal/convert"
)

// printReport renders the batch outcome: produced files as a tree
// under the output root, failures as a table, then the summary line.
func printReport(w io.Writer, outputDir string, report *convert.Report) {
	fmt.Fprintln(w)
	if tree := renderOutputTree(outputDir, report.OutputPaths()); tree != "" {
		fmt.Fprintln(w, tree)
		fmt.Fprintln(w)
	}
	if failures := renderFailures(report.Failures()); failures != "" {
		fmt.Fprintln(w, failures)
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, report.Summary())
}

// renderOutputTree shows the produced paths grouped by directory,
// rooted at the output directory.
func renderOutputTree(root string, paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	byDir := make(map[string][]string)
	var dirs []string
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		dir := filepath.Dir(rel)
		if _, ok := byDir[dir]; !ok {
			dirs = append(dirs, dir)
		}
		byDir[dir] = append(byDir[dir], filepath.Base(rel))
	}
	sort.Strings(dirs)

	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedRounded)
	lw.AppendItem(root)
	for _, dir := range dirs {
		lw.Indent()
		if dir != "." {
			lw.AppendItem(dir)
			lw.Indent()
		}
		for _, name := range byDir[dir] {
			lw.AppendItem(name)
		}
		if dir != "." {
			lw.UnIndent()
		}
		lw.UnIndent()
	}
	return lw.Render()
}

// renderFailures tabulates the failed jobs in batch order.
func renderFailures(failures []convert.JobResult) string {
	if len(failures) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Input", "Error"})
	for _, res := range failures {
		tw.AppendRow(table.Row{
			fmt.Sprintf("%d/%d", res.Job.Index, res.Job.Total),
			res.Job.InputPath,
			res.Err.Error(),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, WidthMax: 60},
	})
	return tw.Render()
}
