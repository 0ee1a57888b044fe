// Package report formats a pipeline.AnalysisResult for a terminal, the
// way a command-line front end presents a finished run to a developer.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/glintanalyzer/glint/internal/issues"
	"github.com/glintanalyzer/glint/internal/pipeline"
)

// WriteText prints every file's issues, sorted by file path and then by
// byte offset, followed by a one-line summary. It returns the first
// write error encountered, if any.
func WriteText(w io.Writer, result *pipeline.AnalysisResult) error {
	files := make([]string, 0, len(result.EmittedIssues))
	for f := range result.EmittedIssues {
		files = append(files, f)
	}
	sort.Strings(files)

	total := 0
	for _, file := range files {
		issueList := append([]issues.Issue(nil), result.EmittedIssues[file]...)
		sort.Slice(issueList, func(i, j int) bool {
			return issueList[i].Pos.Start < issueList[j].Pos.Start
		})
		for _, iss := range issueList {
			if _, err := fmt.Fprintf(w, "%s: %s\n", file, iss.String()); err != nil {
				return err
			}
			total++
		}
	}

	_, err := fmt.Fprintf(w, "%d issue(s) across %d file(s) in %s\n", total, len(files), result.TimeInAnalysis)
	return err
}

// Summarize reports the number of emitted issues per kind, ordered most
// frequent first, for a quick at-a-glance breakdown.
func Summarize(result *pipeline.AnalysisResult) []KindCount {
	out := make([]KindCount, 0, len(result.IssueCounts))
	for kind, count := range result.IssueCounts {
		out = append(out, KindCount{Kind: kind, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

type KindCount struct {
	Kind  issues.Kind
	Count int
}
