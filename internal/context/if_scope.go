package context

import (
	"github.com/glintanalyzer/glint/internal/algebra"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// IfScope accumulates the bookkeeping an if/elseif/else chain needs to
// merge its branches back into the parent scope once every arm has been
// analyzed.
type IfScope struct {
	// NewVars holds variables first defined inside a branch, to be merged
	// into the parent only if every branch defines them.
	NewVars map[string]*typesystem.Union

	NewVarsPossiblyInScope map[string]bool

	// RedefinedVars holds the parent's pre-branch type for variables a
	// branch reassigns, so the merge can combine branch-exit types rather
	// than keep the narrowed pre-branch one.
	RedefinedVars map[string]*typesystem.Union

	RemovedVarIDs map[string]bool

	AssignedVarIDs         map[string]bool
	PossiblyAssignedVarIDs map[string]bool

	PossiblyRedefinedVars map[string]*typesystem.Union

	UpdatedVars map[string]bool

	// NegatedTypes is the asserted-condition formula in reconciler input
	// shape: variable -> disjunction of conjunctions of assertions.
	NegatedTypes map[string][][]algebra.Assertion

	IfCondChangedVarIDs map[string]bool

	NegatedClauses []*algebra.Clause

	// ReasonableClauses are the clauses that remain applicable after the
	// whole if/else chain, valid only when every branch that falls
	// through agrees on them (e.g. every branch but one returns).
	ReasonableClauses []*algebra.Clause

	FinalActions ActionSet
	IfActions    ActionSet
}

func NewIfScope() *IfScope {
	return &IfScope{
		NewVarsPossiblyInScope: make(map[string]bool),
		RemovedVarIDs:          make(map[string]bool),
		PossiblyAssignedVarIDs: make(map[string]bool),
		PossiblyRedefinedVars:  make(map[string]*typesystem.Union),
		UpdatedVars:            make(map[string]bool),
		NegatedTypes:           make(map[string][][]algebra.Assertion),
		IfCondChangedVarIDs:    make(map[string]bool),
		FinalActions:           NewActionSet(),
		IfActions:              NewActionSet(),
	}
}
