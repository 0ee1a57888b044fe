// Package reconcile narrows a variable's union type against a set of
// asserted facts — the logic a branch condition applies to the variables
// it mentions before the branch body is analyzed.
package reconcile

import (
	"github.com/glintanalyzer/glint/internal/algebra"
	"github.com/glintanalyzer/glint/internal/context"
	"github.com/glintanalyzer/glint/internal/issues"
	"github.com/glintanalyzer/glint/internal/pos"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// ReconcileAssertion narrows current against a single assertion, reporting
// whether the narrowing left nothing (a contradiction) and whether it was
// a no-op (the type already satisfied the assertion, so asserting it
// again is redundant).
func ReconcileAssertion(current *typesystem.Union, a algebra.Assertion, hierarchy typesystem.ClassHierarchy) (result *typesystem.Union, contradiction, redundant bool) {
	if current == nil {
		current = typesystem.Mixed()
	}
	switch a.Kind {
	case algebra.Truthy:
		return filterTruthy(current)
	case algebra.Falsy:
		return filterFalsy(current)
	case algebra.IsType:
		return intersectAtomic(current, a.Type, hierarchy)
	case algebra.IsNotType:
		return subtractAtomic(current, a.Type)
	case algebra.IsEqual:
		return intersectAtomic(current, a.Type, hierarchy)
	case algebra.IsNotEqual:
		return subtractAtomic(current, a.Type)
	case algebra.InArray:
		return intersectUnion(current, a.Union, hierarchy)
	case algebra.NotInArray:
		return subtractUnion(current, a.Union)
	default:
		return current, false, true
	}
}

// reconcileConjunction applies every assertion in a conjunction to
// current in order, narrowing further at each step. It short-circuits (but
// still returns a usable, if empty, union) once a contradiction occurs.
func reconcileConjunction(current *typesystem.Union, conj []algebra.Assertion, hierarchy typesystem.ClassHierarchy) (result *typesystem.Union, contradiction, redundant bool) {
	result = current
	redundant = true
	for _, a := range conj {
		var c, r bool
		result, c, r = ReconcileAssertion(result, a, hierarchy)
		if !r {
			redundant = false
		}
		if c {
			return result, true, redundant
		}
	}
	return result, false, redundant
}

// reconcileDisjunction resolves the asserted disjunction-of-conjunctions
// for one variable by reconciling each conjunction independently and
// joining the surviving results — the OR of several possible narrowed
// types. A disjunction where every conjunction contradicts is itself a
// contradiction.
func reconcileDisjunction(current *typesystem.Union, disj [][]algebra.Assertion, hierarchy typesystem.ClassHierarchy) (result *typesystem.Union, contradiction, redundant bool) {
	var survivors []*typesystem.Union
	redundant = true
	for _, conj := range disj {
		r, c, red := reconcileConjunction(current, conj, hierarchy)
		if !red {
			redundant = false
		}
		if !c {
			survivors = append(survivors, r)
		}
	}
	if len(survivors) == 0 {
		return typesystem.Nothing(), true, redundant
	}
	return typesystem.Combine(survivors, nil, false), false, redundant
}

// ReconcileKeyedTypes narrows every variable named in asserted against
// scope's current types, reports TypeDoesNotContainType/
// RedundantTypeComparison as appropriate, writes the narrowed type back
// into scope, and drops that variable's now-possibly-stale clauses.
// It returns the set of variables that were actually narrowed.
func ReconcileKeyedTypes(
	asserted map[string][][]algebra.Assertion,
	scope *context.Scope,
	hierarchy typesystem.ClassHierarchy,
	acc *issues.Accumulator,
	at pos.Pos,
	functionID string,
	canReportIssues bool,
) map[string]bool {
	changed := make(map[string]bool)
	for varID, disj := range asserted {
		current, ok := scope.VarsInScope[varID]
		if !ok {
			continue
		}
		narrowed, contradiction, redundant := reconcileDisjunction(current, disj, hierarchy)

		if contradiction {
			if acc != nil {
				acc.Report(issues.New(issues.TypeDoesNotContainType,
					"type "+current.String()+" does not contain the asserted type", at, functionID), nil)
			}
			scope.VarsInScope[varID] = typesystem.Nothing()
			changed[varID] = true
			scope.RemoveClausesMentioning(varID)
			continue
		}

		if redundant {
			if canReportIssues && acc != nil {
				acc.Report(issues.New(issues.RedundantTypeComparison,
					"type "+current.String()+" already satisfies the asserted condition", at, functionID), nil)
			}
			continue
		}

		scope.VarsInScope[varID] = narrowed
		changed[varID] = true
		scope.RemoveClausesMentioning(varID)
	}
	return changed
}
