package context

import "github.com/glintanalyzer/glint/internal/typesystem"

// LoopScope carries the state a loop body's fixed-point iteration needs:
// the types each pass through the body redefines, so a second pass can
// widen variables to whatever the first pass's exit type was.
type LoopScope struct {
	IterationCount int

	// ParentContextVars snapshots the variable types in scope when the
	// loop was entered, so a widening comparison can tell whether another
	// iteration pass is needed.
	ParentContextVars map[string]*typesystem.Union

	RedefinedLoopVars map[string]*typesystem.Union

	PossiblyRedefinedLoopVars       map[string]*typesystem.Union
	PossiblyRedefinedLoopParentVars map[string]*typesystem.Union
	PossiblyDefinedLoopParentVars   map[string]*typesystem.Union

	// ProtectedVarIDs are variables the loop condition itself assigns
	// (e.g. a `for` loop's increment clause) and which must not be
	// widened by the body's fixed-point pass.
	ProtectedVarIDs map[string]bool

	FinalActions []ControlAction
}

func NewLoopScope(parentContextVars map[string]*typesystem.Union) *LoopScope {
	return &LoopScope{
		ParentContextVars:               parentContextVars,
		RedefinedLoopVars:               make(map[string]*typesystem.Union),
		PossiblyRedefinedLoopVars:       make(map[string]*typesystem.Union),
		PossiblyRedefinedLoopParentVars: make(map[string]*typesystem.Union),
		PossiblyDefinedLoopParentVars:   make(map[string]*typesystem.Union),
		ProtectedVarIDs:                 make(map[string]bool),
	}
}

// Converged reports whether another iteration pass is unnecessary: every
// variable redefined in the loop body is already contained by its
// recorded type from the previous pass.
func (l *LoopScope) Converged(current map[string]*typesystem.Union) bool {
	for name, prev := range l.RedefinedLoopVars {
		cur, ok := current[name]
		if !ok {
			return false
		}
		ok2, _ := typesystem.IsContainedBy(cur, prev, nil)
		if !ok2 {
			return false
		}
	}
	return true
}
