// Package pipeline is the coarse-grained, data-parallel-across-files
// driver: it fans a batch of files out across a worker pool, runs every
// function-like body in each file through internal/analyzer, and merges
// each worker's independent accumulator into one AnalysisResult.
package pipeline

import (
	"sync"
	"time"

	"github.com/glintanalyzer/glint/internal/dataflow"
	"github.com/glintanalyzer/glint/internal/issues"
	"github.com/glintanalyzer/glint/internal/pos"
)

// AnalysisResult is the engine's external output: every
// emitted issue and autofix replacement, keyed by file, the merged
// whole-program data-flow graph, the reverse symbol-reference index, and
// aggregate counts/timing.
type AnalysisResult struct {
	mu sync.Mutex

	EmittedIssues  map[string][]issues.Issue
	Replacements   map[string]map[pos.Key]issues.Replacement
	ProgramGraph   *dataflow.Graph
	SymbolReferences map[string]map[string]bool // symbol -> set of files referencing it
	IssueCounts    map[issues.Kind]int
	TimeInAnalysis time.Duration
}

func NewAnalysisResult(graphKind dataflow.GraphKind) *AnalysisResult {
	return &AnalysisResult{
		EmittedIssues:    make(map[string][]issues.Issue),
		Replacements:     make(map[string]map[pos.Key]issues.Replacement),
		ProgramGraph:     dataflow.NewGraph(graphKind),
		SymbolReferences: make(map[string]map[string]bool),
		IssueCounts:      make(map[issues.Kind]int),
	}
}

// mergeFile folds one file's worker output into the shared result. It
// takes the result's own lock, the only synchronization point in the
// whole pipeline: the one merge step performed once per file, never per
// operation, so no lock is ever taken in the analysis hot path.
func (r *AnalysisResult) mergeFile(file string, fr *FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.EmittedIssues[file] = append(r.EmittedIssues[file], fr.Issues...)
	for _, iss := range fr.Issues {
		r.IssueCounts[iss.Kind]++
	}

	if len(fr.Replacements) > 0 {
		dst, ok := r.Replacements[file]
		if !ok {
			dst = make(map[pos.Key]issues.Replacement, len(fr.Replacements))
			r.Replacements[file] = dst
		}
		for k, v := range fr.Replacements {
			dst[k] = v
		}
	}

	for symbol, positions := range fr.SymbolReferences {
		if len(positions) == 0 {
			continue
		}
		files, ok := r.SymbolReferences[symbol]
		if !ok {
			files = make(map[string]bool, 1)
			r.SymbolReferences[symbol] = files
		}
		files[file] = true
	}

	if fr.Graph != nil {
		r.ProgramGraph.Merge(fr.Graph)
	}
	r.TimeInAnalysis += fr.Duration
}

// FileResult is one worker's complete analysis of a single file, the unit
// merged into AnalysisResult.
type FileResult struct {
	Issues           []issues.Issue
	Replacements     map[pos.Key]issues.Replacement
	SymbolReferences map[string][]pos.Pos
	Graph            *dataflow.Graph
	Duration         time.Duration
}
