package context

import (
	"github.com/glintanalyzer/glint/internal/algebra"
	"github.com/glintanalyzer/glint/internal/interner"
	"github.com/glintanalyzer/glint/internal/pos"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// BreakTarget distinguishes what an enclosing `break`/`continue` applies
// to, since a switch and a loop both push onto the same stack.
type BreakTarget int

const (
	BreakLoop BreakTarget = iota
	BreakSwitch
)

// FunctionContext carries the calling class/functionlike identity and
// purity flags that don't change within a single function-body analysis,
// shared (not cloned) across every Scope forked from it.
type FunctionContext struct {
	CallingClass      interner.ID
	CallingFunctionID interner.ID
	Namespace         string
	NamespaceAliases  map[string]string
	IsStatic          bool
	PureFunctionCall  bool
}

// FinallyScope aggregates variable state across every path (try body, each
// catch) that can reach a surrounding `finally` block. It is shared by
// reference between the try scope and every catch scope so each path's
// exit state can be folded in as it completes.
type FinallyScope struct {
	VarsInScope map[string]*typesystem.Union
}

func NewFinallyScope() *FinallyScope {
	return &FinallyScope{VarsInScope: make(map[string]*typesystem.Union)}
}

// Merge folds a completed path's variable types into the finally scope,
// widening any variable already recorded to cover both paths.
func (f *FinallyScope) Merge(vars map[string]*typesystem.Union) {
	for name, u := range vars {
		if existing, ok := f.VarsInScope[name]; ok {
			f.VarsInScope[name] = typesystem.Combine([]*typesystem.Union{existing, u}, nil, false)
		} else {
			f.VarsInScope[name] = u.Clone()
		}
	}
}

// Scope is the mutable bundle of per-program-point state threaded through
// a function body's walk.
type Scope struct {
	VarsInScope map[string]*typesystem.Union

	Clauses []*algebra.Clause

	AssignedVarIDs         map[string]bool
	PossiblyAssignedVarIDs map[string]bool
	CondReferencedVarIDs   map[string]bool

	BreakTypes []BreakTarget

	InsideLoop        bool
	InsideConditional bool
	InsideIsset       bool
	InsideGeneralUse  bool
	InsideNegation    bool
	InsideAsync       bool
	InsideAwait       bool
	InsideThrow       bool
	AllowTaints       bool
	HasReturned       bool

	ControlActions ActionSet

	FunctionContext *FunctionContext

	FinallyScope *FinallyScope

	LoopBounds         *pos.Pos
	ForLoopInitBounds  *pos.Pos
}

// New creates an empty top-level scope for a function body.
func New(fc *FunctionContext) *Scope {
	return &Scope{
		VarsInScope:            make(map[string]*typesystem.Union),
		AssignedVarIDs:         make(map[string]bool),
		PossiblyAssignedVarIDs: make(map[string]bool),
		CondReferencedVarIDs:   make(map[string]bool),
		ControlActions:         NewActionSet(),
		FunctionContext:        fc,
		AllowTaints:            true,
	}
}

// Clone returns an independent copy suitable for analyzing a branch: the
// variable map and clause list are deep-enough-copied that narrowing one
// branch's types never affects a sibling branch, while FunctionContext and
// FinallyScope are shared by reference.
func (s *Scope) Clone() *Scope {
	out := &Scope{
		VarsInScope:            make(map[string]*typesystem.Union, len(s.VarsInScope)),
		Clauses:                append([]*algebra.Clause{}, s.Clauses...),
		AssignedVarIDs:         copyBoolMap(s.AssignedVarIDs),
		PossiblyAssignedVarIDs: copyBoolMap(s.PossiblyAssignedVarIDs),
		CondReferencedVarIDs:   copyBoolMap(s.CondReferencedVarIDs),
		BreakTypes:             append([]BreakTarget{}, s.BreakTypes...),
		InsideLoop:             s.InsideLoop,
		InsideConditional:      s.InsideConditional,
		InsideIsset:            s.InsideIsset,
		InsideGeneralUse:       s.InsideGeneralUse,
		InsideNegation:         s.InsideNegation,
		InsideAsync:            s.InsideAsync,
		InsideAwait:            s.InsideAwait,
		InsideThrow:            s.InsideThrow,
		AllowTaints:            s.AllowTaints,
		HasReturned:            s.HasReturned,
		ControlActions:         s.ControlActions.Clone(),
		FunctionContext:        s.FunctionContext,
		FinallyScope:           s.FinallyScope,
		LoopBounds:             s.LoopBounds,
		ForLoopInitBounds:      s.ForLoopInitBounds,
	}
	for name, u := range s.VarsInScope {
		out.VarsInScope[name] = u.Clone()
	}
	return out
}

func copyBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// InScope reports whether a variable is currently bound (invariant I1/I3).
func (s *Scope) InScope(varID string) bool {
	_, ok := s.VarsInScope[varID]
	return ok
}

// Unset removes a variable from scope, and invalidates every clause that
// mentions it.
func (s *Scope) Unset(varID string) {
	delete(s.VarsInScope, varID)
	s.RemoveClausesMentioning(varID)
}

// RemoveClausesMentioning drops every clause that references varID,
// regardless of whether its assertion is still consistent; callers that
// need the soundness-preserving "consistent with new type" check should
// use RemoveVarFromConflictingClauses instead.
func (s *Scope) RemoveClausesMentioning(varID string) {
	kept := make([]*algebra.Clause, 0, len(s.Clauses))
	for _, c := range s.Clauses {
		if _, ok := c.Possibilities[varID]; !ok {
			kept = append(kept, c)
			continue
		}
		if reduced := c.RemovePossibilities(varID); reduced != nil {
			kept = append(kept, reduced)
		}
	}
	s.Clauses = kept
}

// RemoveVarFromConflictingClauses drops every clause mentioning var except
// ones whose assertion on var is still consistent with newType: if we
// asserted `$x is string` and then assign a string, the assertion
// survives.
func (s *Scope) RemoveVarFromConflictingClauses(varID string, newType *typesystem.Union) {
	kept := make([]*algebra.Clause, 0, len(s.Clauses))
	for _, c := range s.Clauses {
		entries := c.Assertions(varID)
		if entries == nil {
			kept = append(kept, c)
			continue
		}
		if newType != nil && clauseConsistentWithType(entries, newType) {
			kept = append(kept, c)
			continue
		}
		if reduced := c.RemovePossibilities(varID); reduced != nil {
			kept = append(kept, reduced)
		}
	}
	s.Clauses = kept
}

func clauseConsistentWithType(entries []algebra.Assertion, newType *typesystem.Union) bool {
	for _, a := range entries {
		if a.Kind != algebra.IsType && a.Kind != algebra.IsEqual {
			return false
		}
		ok, _ := typesystem.IsContainedBy(newType, typesystem.Single(a.Type), nil)
		if !ok {
			return false
		}
	}
	return true
}
