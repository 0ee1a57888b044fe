package analyzer

import (
	"github.com/glintanalyzer/glint/internal/algebra"
	"github.com/glintanalyzer/glint/internal/ast"
	"github.com/glintanalyzer/glint/internal/codebase"
	"github.com/glintanalyzer/glint/internal/context"
	"github.com/glintanalyzer/glint/internal/dataflow"
	"github.com/glintanalyzer/glint/internal/issues"
	"github.com/glintanalyzer/glint/internal/pos"
	"github.com/glintanalyzer/glint/internal/reconcile"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// Walker is the engine itself: an ast.Visitor whose methods read the
// current block context, evaluate subexpressions (which may themselves
// update the context), record a type/effects pair for every expression
// byte range, and append diagnostics and data-flow edges as they are
// discovered. A fresh Walker is created per function body; it is never
// shared across files or goroutines.
type Walker struct {
	Codebase   *codebase.Codebase
	Data       *Data
	Scope      *context.Scope
	FunctionID string

	// Returns collects the union of every expression reaching a `return`
	// statement, used by the function-like driver to infer the return
	// type. ReturnValuePositions holds, for each entry in Returns, the
	// byte range of the returned expression itself (or the bare `return;`
	// statement when there is no value) so return-type diagnostics can
	// point at the offending value rather than the whole function.
	Returns              []*typesystem.Union
	ReturnValuePositions []pos.Pos
	// FellThrough is set if analysis reaches the end of the body without
	// every path having returned.
	FellThrough bool

	// lastAction is the control action the most recently visited
	// statement terminated with, read by VisitBlock and the branch/loop
	// visitors immediately after each Accept call.
	lastAction context.ControlAction
}

func NewWalker(cb *codebase.Codebase, data *Data, scope *context.Scope, functionID string) *Walker {
	return &Walker{Codebase: cb, Data: data, Scope: scope, FunctionID: functionID}
}

// hierarchy adapts Codebase to typesystem.ClassHierarchy, tolerating a nil
// Codebase (e.g. in tests that analyze a function body in isolation).
func (w *Walker) hierarchy() typesystem.ClassHierarchy {
	if w.Codebase == nil {
		return nil
	}
	return w.Codebase
}

func (w *Walker) variance() typesystem.VarianceLookup {
	if w.Codebase == nil {
		return nil
	}
	return w.Codebase
}

// analyze visits e and returns the type recorded for it.
func (w *Walker) analyze(e ast.Expression) *typesystem.Union {
	e.Accept(w)
	return w.Data.TypeOf(e.Pos())
}

func (w *Walker) report(kind issues.Kind, description string, n ast.Node) {
	w.Data.Accumulator.Report(issues.New(kind, description, n.Pos(), w.FunctionID), nil)
}

// applyFormula reconciles scope against f (positively, or negated when
// !positive) and returns the set of changed variable ids, mirroring the
// `&&`/`||`/if-condition contract.
func (w *Walker) applyFormula(f algebra.Formula, positive bool, at ast.Node, canReportIssues bool) map[string]bool {
	if !positive {
		negated, err := algebra.NegateFormula(f)
		if err != nil {
			return nil
		}
		f = negated
	}
	truths, _, paradoxes := algebra.GetTruthsFromFormula(f, objectIDFor(at), nil)
	if canReportIssues {
		for _, varID := range paradoxes {
			w.report(issues.ParadoxicalCondition, "condition can never be true: "+varID+" is asserted to equal two different values at once", at)
		}
	}
	if len(truths) == 0 {
		return nil
	}
	asserted := make(map[string][][]algebra.Assertion, len(truths))
	for varID, possibilities := range truths {
		disj := make([][]algebra.Assertion, len(possibilities))
		for i, a := range possibilities {
			disj[i] = []algebra.Assertion{a}
		}
		asserted[varID] = disj
	}
	return reconcile.ReconcileKeyedTypes(asserted, w.Scope, w.hierarchy(), w.Data.Accumulator, at.Pos(), w.FunctionID, canReportIssues)
}

// recordVariableUse attaches a VariableUseSink edge from the variable's
// current parent nodes to a fresh sink node, the data-flow contract for
// every read of a variable.
func (w *Walker) recordVariableUse(v *ast.Variable, u *typesystem.Union) {
	sink := dataflow.NewVariableUseSink(v.Pos())
	w.Data.Graph.AddNode(sink)
	for _, parentID := range u.ParentIDs() {
		w.Data.Graph.AddEdge(parentID, sink.ID, dataflow.Path{Kind: dataflow.PathDefault})
	}
}
