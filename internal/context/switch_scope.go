package context

import (
	"github.com/glintanalyzer/glint/internal/algebra"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// SwitchScope carries a switch statement's cross-case bookkeeping: Hack
// case fallthrough (no `break`) means a later case can inherit variable
// state asserted by an earlier case's condition, so the switch analyzer
// keeps a leftover case-equality assertion to apply to the next case it
// visits.
type SwitchScope struct {
	NewVarsInScope map[string]*typesystem.Union

	RedefinedVars map[string]*typesystem.Union

	PossiblyRedefinedVars map[string]*typesystem.Union

	// LeftoverCaseEqualityClause is the clause asserting "$subject ==
	// <this case's value>" carried forward when a case has no body and
	// falls through to the next.
	LeftoverCaseEqualityClause *algebra.Clause

	NegatedClauses []*algebra.Clause

	NewAssignedVarIDs map[string]bool
}

func NewSwitchScope() *SwitchScope {
	return &SwitchScope{
		NewAssignedVarIDs: make(map[string]bool),
	}
}
