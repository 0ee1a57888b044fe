package algebra

import (
	"testing"

	"github.com/glintanalyzer/glint/internal/typesystem"
)

func TestSimplifyCNFRemovesEntailedClause(t *testing.T) {
	oid1 := ObjectID{Start: 1, End: 1}
	oid2 := ObjectID{Start: 2, End: 2}
	f := Formula{
		NewClause(map[string][]Assertion{"$a": {NewTruthy()}, "$b": {NewTruthy()}}, oid1, oid1, false, true, false),
		NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid2, oid2, false, true, false),
	}
	simplified := SimplifyCNF(f)
	if len(simplified) != 1 {
		t.Fatalf("expected the weaker 2-var clause to be dropped, got %d clauses", len(simplified))
	}
	if _, ok := simplified[0].Possibilities["$b"]; ok {
		t.Fatal("the surviving clause should be the stronger single-variable one")
	}
}

func TestSimplifyCNFIsIdempotentOnDisjointClauses(t *testing.T) {
	oid1 := ObjectID{Start: 1, End: 1}
	oid2 := ObjectID{Start: 2, End: 2}
	f := Formula{
		NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid1, oid1, false, true, false),
		NewClause(map[string][]Assertion{"$b": {NewFalsy()}}, oid2, oid2, false, true, false),
	}
	simplified := SimplifyCNF(f)
	if len(simplified) != 2 {
		t.Fatalf("disjoint clauses should both survive, got %d", len(simplified))
	}
}

func TestSimplifyCNFAbsorbsNegatedPair(t *testing.T) {
	oid := ObjectID{Start: 1, End: 1}
	f := Formula{
		NewClause(map[string][]Assertion{"$a": {NewTruthy()}, "$b": {NewTruthy()}}, oid, oid, false, true, false),
		NewClause(map[string][]Assertion{"$a": {NewFalsy()}, "$b": {NewTruthy()}}, oid, oid, false, true, false),
	}
	simplified := SimplifyCNF(f)
	if len(simplified) != 1 {
		t.Fatalf("(a||b)&&(!a||b) should absorb to just b, got %d clauses", len(simplified))
	}
	if _, ok := simplified[0].Possibilities["$a"]; ok {
		t.Fatal("absorption should have removed $a entirely")
	}
}

func TestCombineOredClausesIsOr(t *testing.T) {
	oid := ObjectID{Start: 1, End: 1}
	a := NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid, oid, false, true, false)
	b := NewClause(map[string][]Assertion{"$a": {NewFalsy()}}, oid, oid, false, true, false)
	combined := CombineOredClauses(a, b, oid)
	as := combined.Assertions("$a")
	if len(as) != 2 {
		t.Fatalf("expected both possibilities for $a after OR, got %v", as)
	}
}

func TestNegateFormulaInvolution(t *testing.T) {
	oid := ObjectID{Start: 1, End: 1}
	f := Formula{
		NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid, oid, false, true, false),
	}
	negated, err := NegateFormula(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twiceNegated, err := NegateFormula(negated)
	if err != nil {
		t.Fatalf("unexpected error on second negation: %v", err)
	}
	if len(twiceNegated) != 1 {
		t.Fatalf("expected 1 clause after double negation, got %d", len(twiceNegated))
	}
	if twiceNegated[0].Hash() != f[0].Hash() {
		t.Fatal("negate(negate(F)) should equal F")
	}
}

func TestNegateFormulaTooComplex(t *testing.T) {
	oid := ObjectID{Start: 1, End: 1}
	var f Formula
	for i := 0; i < 6; i++ {
		f = append(f, NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid, oid, false, true, false))
	}
	_, err := NegateFormula(f)
	if err == nil {
		t.Fatal("expected TooComplex for a formula exceeding the negation threshold")
	}
	if _, ok := err.(*TooComplex); !ok {
		t.Fatalf("expected *TooComplex, got %T", err)
	}
}

func TestGetTruthsFromFormulaSingleVarClause(t *testing.T) {
	oid := ObjectID{Start: 7, End: 7}
	f := Formula{
		NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid, oid, false, true, false),
	}
	referenced := make(map[string]bool)
	truths, active, _ := GetTruthsFromFormula(f, oid, referenced)
	if len(truths["$a"]) != 1 || truths["$a"][0].Kind != Truthy {
		t.Fatalf("expected $a truthy as an established truth, got %v", truths["$a"])
	}
	if len(active["$a"]) != 1 {
		t.Fatal("the truth should be active since it came from the matching condition id")
	}
	if !referenced["$a"] {
		t.Fatal("$a should be recorded as referenced")
	}
}

func TestGetTruthsFromFormulaMultiPossibilityClauseEstablishesNothing(t *testing.T) {
	oid := ObjectID{Start: 1, End: 1}
	f := Formula{
		NewClause(map[string][]Assertion{"$a": {NewTruthy(), NewFalsy()}}, oid, oid, false, true, false),
	}
	truths, _, _ := GetTruthsFromFormula(f, oid, nil)
	if len(truths) != 0 {
		t.Fatalf("a multi-possibility clause for $a alone should establish no truth, got %v", truths)
	}
}

func TestGetTruthsFromFormulaReportsContradictoryEquality(t *testing.T) {
	oid := ObjectID{Start: 1, End: 1}
	f := Formula{
		NewClause(map[string][]Assertion{"$x": {NewIsEqual(typesystem.TLiteralInt{Value: 0})}}, oid, oid, false, true, false),
		NewClause(map[string][]Assertion{"$x": {NewIsEqual(typesystem.TLiteralInt{Value: 1})}}, oid, oid, false, true, false),
	}
	_, _, paradoxes := GetTruthsFromFormula(f, oid, nil)
	if len(paradoxes) != 1 || paradoxes[0] != "$x" {
		t.Fatalf("expected $x flagged as paradoxical, got %v", paradoxes)
	}
}
