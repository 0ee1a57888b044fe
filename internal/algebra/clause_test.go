package algebra

import "testing"

func TestAssertionNegationIsInvolution(t *testing.T) {
	cases := []Assertion{
		NewTruthy(),
		NewFalsy(),
	}
	for _, a := range cases {
		if a.GetNegation().GetNegation().Hash() != a.Hash() {
			t.Errorf("negation of negation should equal original for %s", a)
		}
	}
}

func TestClauseHashDeterministic(t *testing.T) {
	oid := ObjectID{Start: 1, End: 1}
	c1 := NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid, oid, false, true, false)
	c2 := NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid, oid, false, true, false)
	if c1.Hash() != c2.Hash() {
		t.Fatal("identical clauses must hash identically")
	}
}

func TestWedgeNeverEqualsOrdinaryClause(t *testing.T) {
	oid := ObjectID{Start: 5, End: 5}
	wedge := NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid, oid, true, true, false)
	plain := NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid, oid, false, true, false)
	if wedge.Equal(plain) {
		t.Fatal("a wedge must never compare equal to an otherwise-identical ordinary clause")
	}
}

func TestTwoWedgesFromDifferentSitesAreDistinct(t *testing.T) {
	w1 := NewClause(nil, ObjectID{Start: 1, End: 1}, ObjectID{Start: 1, End: 1}, true, true, false)
	w2 := NewClause(nil, ObjectID{Start: 2, End: 2}, ObjectID{Start: 2, End: 2}, true, true, false)
	if w1.Equal(w2) {
		t.Fatal("wedges from different sites must hash differently")
	}
}

func TestClauseContainsSubsumption(t *testing.T) {
	oid := ObjectID{Start: 1, End: 1}
	big := NewClause(map[string][]Assertion{
		"$a": {NewTruthy()},
		"$b": {NewTruthy()},
	}, oid, oid, false, true, false)
	small := NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid, oid, false, true, false)
	if !big.Contains(small) {
		t.Fatal("a clause with a superset of possibilities must contain the smaller one")
	}
	if small.Contains(big) {
		t.Fatal("the smaller clause must not contain the bigger one")
	}
}

func TestRemovePossibilitiesDropsEmptyClause(t *testing.T) {
	oid := ObjectID{Start: 1, End: 1}
	c := NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid, oid, false, true, false)
	if c.RemovePossibilities("$a") != nil {
		t.Fatal("removing the only variable should yield a nil (empty) clause")
	}
}

func TestGetImpossibilitiesNegatesNonLiteralAssertions(t *testing.T) {
	oid := ObjectID{Start: 1, End: 1}
	c := NewClause(map[string][]Assertion{"$a": {NewTruthy()}}, oid, oid, false, true, false)
	imp := c.GetImpossibilities()
	if len(imp["$a"]) != 1 || imp["$a"][0].Kind != Falsy {
		t.Fatalf("expected !$a as the impossibility, got %v", imp["$a"])
	}
}
