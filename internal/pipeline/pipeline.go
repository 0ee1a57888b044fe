package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/glintanalyzer/glint/internal/analyzer"
	"github.com/glintanalyzer/glint/internal/ast"
	"github.com/glintanalyzer/glint/internal/codebase"
	"github.com/glintanalyzer/glint/internal/dataflow"
	"github.com/glintanalyzer/glint/internal/issues"
	"github.com/glintanalyzer/glint/internal/pos"
)

// FunctionUnit pairs a parsed function body with its already-resolved
// signature, the input AnalyzeFunction expects. Parsing and declaration
// binding happen upstream of this package.
type FunctionUnit struct {
	AST  *ast.Function
	Info *codebase.FunctionLikeInfo
}

// FileUnit is one file's worth of work handed to a single worker: every
// function-like body declared in it, analyzed against the shared
// Codebase.
type FileUnit struct {
	Path      string
	Functions []FunctionUnit
}

// Config controls a run: which optional checks run, which
// issue kinds are allow-listed, per-file suppression globs, which
// data-flow graph variant to build, and how many files to analyze at
// once.
type Config struct {
	FindUnusedExpressions bool
	FindUnusedDefinitions bool
	IgnoreMixedIssues     bool
	ASTDiff               bool

	// AllowedKinds, when non-empty, restricts emitted issues to this set;
	// every other kind is dropped before merging.
	AllowedKinds map[issues.Kind]bool

	Suppressions *issues.Suppressions
	Fixmes       issues.FixmeTable

	GraphKind dataflow.GraphKind

	Root string

	// Concurrency bounds how many files are analyzed at once. Zero means
	// the runner picks its own default.
	Concurrency int
}

// Pipeline is the coarse file-parallel driver: Run fans the given files
// out across a bounded worker pool, each worker owning its own
// *analyzer.Data per function it analyzes, and folds every file's output
// into one shared AnalysisResult as that file finishes. The only
// contended state in the whole run is that final per-file merge; nothing
// else is shared between workers but the read-only Codebase.
type Pipeline struct {
	Codebase *codebase.Codebase
	Config   Config
}

func New(cb *codebase.Codebase, cfg Config) *Pipeline {
	return &Pipeline{Codebase: cb, Config: cfg}
}

// Run analyzes every file independently and returns the merged result.
// Cancelling ctx stops workers from starting new files; a file already
// in flight always finishes and is still merged, so cancellation only
// ever takes effect between files, never mid-file.
func (p *Pipeline) Run(ctx context.Context, files []FileUnit) (*AnalysisResult, error) {
	result := NewAnalysisResult(p.Config.GraphKind)

	g, gctx := errgroup.WithContext(ctx)
	if p.Config.Concurrency > 0 {
		g.SetLimit(p.Config.Concurrency)
	}

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr := p.analyzeFile(file)
			result.mergeFile(file.Path, fr)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// analyzeFile runs every function in a file, in declaration order, within
// the owning worker and folds their per-function Data into one
// FileResult. Functions within a file are never split across workers;
// the parallelism modeled here is file-level only.
func (p *Pipeline) analyzeFile(file FileUnit) *FileResult {
	start := time.Now()

	fr := &FileResult{
		Replacements:     make(map[pos.Key]issues.Replacement),
		SymbolReferences: make(map[string][]pos.Pos),
		Graph:            dataflow.NewGraph(p.Config.GraphKind),
	}

	for _, fn := range file.Functions {
		res := analyzer.AnalyzeFunction(p.Codebase, fn.Info, fn.AST, file.Path, p.Config.GraphKind, p.Config.Suppressions, p.Config.Fixmes)

		for _, iss := range res.Data.Accumulator.Issues() {
			if len(p.Config.AllowedKinds) > 0 && !p.Config.AllowedKinds[iss.Kind] {
				continue
			}
			if p.Config.IgnoreMixedIssues && iss.Kind == issues.MixedOperand {
				continue
			}
			fr.Issues = append(fr.Issues, iss)
		}
		for _, at := range res.Data.Accumulator.Replacements() {
			if r, ok := res.Data.Accumulator.ReplacementAt(at); ok {
				fr.Replacements[at.Key()] = r
			}
		}
		for symbol, positions := range res.Data.Accumulator.SymbolReferences {
			fr.SymbolReferences[symbol] = append(fr.SymbolReferences[symbol], positions...)
		}
		fr.Graph.Merge(res.Data.Graph)
	}

	fr.Duration = time.Since(start)
	return fr
}
