package context

import (
	"testing"

	"github.com/glintanalyzer/glint/internal/algebra"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

func TestCloneIsIndependent(t *testing.T) {
	s := New(&FunctionContext{})
	s.VarsInScope["$a"] = typesystem.New(typesystem.TInt{})
	clone := s.Clone()
	clone.VarsInScope["$a"] = typesystem.New(typesystem.TString{})
	clone.VarsInScope["$b"] = typesystem.New(typesystem.TBool{})

	if s.VarsInScope["$a"].String() != "int" {
		t.Fatal("mutating the clone's variable map must not affect the parent")
	}
	if s.InScope("$b") {
		t.Fatal("a variable added only to the clone must not appear in the parent")
	}
}

func TestUnsetRemovesVarAndClauses(t *testing.T) {
	s := New(&FunctionContext{})
	s.VarsInScope["$a"] = typesystem.New(typesystem.TInt{})
	oid := algebra.ObjectID{Start: 1, End: 1}
	s.Clauses = []*algebra.Clause{
		algebra.NewClause(map[string][]algebra.Assertion{"$a": {algebra.NewTruthy()}}, oid, oid, false, true, false),
	}
	s.Unset("$a")
	if s.InScope("$a") {
		t.Fatal("$a should no longer be in scope")
	}
	if len(s.Clauses) != 0 {
		t.Fatal("the clause mentioning $a should have been dropped entirely (it had no other variable)")
	}
}

func TestRemoveVarFromConflictingClausesKeepsConsistentAssertion(t *testing.T) {
	s := New(&FunctionContext{})
	oid := algebra.ObjectID{Start: 1, End: 1}
	s.Clauses = []*algebra.Clause{
		algebra.NewClause(map[string][]algebra.Assertion{"$a": {algebra.NewIsType(typesystem.TString{})}}, oid, oid, false, true, false),
	}
	s.RemoveVarFromConflictingClauses("$a", typesystem.New(typesystem.TString{}))
	if len(s.Clauses) != 1 {
		t.Fatal("an assertion consistent with the new type should survive reassignment")
	}
}

func TestRemoveVarFromConflictingClausesDropsInconsistentAssertion(t *testing.T) {
	s := New(&FunctionContext{})
	oid := algebra.ObjectID{Start: 1, End: 1}
	s.Clauses = []*algebra.Clause{
		algebra.NewClause(map[string][]algebra.Assertion{"$a": {algebra.NewIsType(typesystem.TString{})}}, oid, oid, false, true, false),
	}
	s.RemoveVarFromConflictingClauses("$a", typesystem.New(typesystem.TInt{}))
	if len(s.Clauses) != 0 {
		t.Fatal("an assertion inconsistent with the new type should be dropped")
	}
}

func TestLoopScopeConverged(t *testing.T) {
	ls := NewLoopScope(nil)
	ls.RedefinedLoopVars["$i"] = typesystem.New(typesystem.TInt{})
	current := map[string]*typesystem.Union{"$i": typesystem.New(typesystem.TInt{})}
	if !ls.Converged(current) {
		t.Fatal("identical types across passes should mean convergence")
	}
	current["$i"] = typesystem.New(typesystem.TInt{}, typesystem.TString{})
	if ls.Converged(current) {
		t.Fatal("a widened type not contained by the previous pass should not converge")
	}
}

func TestActionSetOnlyEnds(t *testing.T) {
	s := NewActionSet(ActionReturn)
	if !s.OnlyEnds() {
		t.Fatal("a set of only Return should report OnlyEnds")
	}
	s.Add(ActionBreak)
	if s.OnlyEnds() {
		t.Fatal("adding Break should mean the block can fall through via break")
	}
}
