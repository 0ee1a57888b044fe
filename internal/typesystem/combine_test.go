package typesystem

import "testing"

func TestCombineWithNothingIsIdentity(t *testing.T) {
	got := Combine([]*Union{New(TInt{}), Nothing()}, nil, false)
	if got.String() != "int" {
		t.Fatalf("combine(int, nothing) = %s, want int", got)
	}
}

func TestCombineEmptyIsNothing(t *testing.T) {
	got := Combine(nil, nil, false)
	if !got.IsNothing() {
		t.Fatalf("combine() with no inputs should be nothing, got %s", got)
	}
}

func TestCombineScalarsJoinIntoUnion(t *testing.T) {
	got := Combine([]*Union{New(TInt{}), New(TString{})}, nil, false)
	if len(got.Types) != 2 {
		t.Fatalf("expected a 2-member union, got %s", got)
	}
}

func TestCombineLiteralsWidenWithPlainSupertype(t *testing.T) {
	got := Combine([]*Union{New(TLiteralInt{Value: 1}), New(TInt{})}, nil, false)
	if got.String() != "int" {
		t.Fatalf("combine(1, int) = %s, want int (literal should widen)", got)
	}
}

func TestCombineLiteralsWithoutSupertypeStayDistinct(t *testing.T) {
	got := Combine([]*Union{New(TLiteralInt{Value: 1}), New(TLiteralInt{Value: 2})}, nil, false)
	if len(got.Types) != 2 {
		t.Fatalf("combine(1, 2) should keep both literals distinct, got %s", got)
	}
}

func TestCombineVecJoinsParams(t *testing.T) {
	a := New(TVec{Param: Single(TInt{})})
	b := New(TVec{Param: Single(TString{})})
	got := Combine([]*Union{a, b}, nil, false)
	if len(got.Types) != 1 {
		t.Fatalf("expected a single vec atomic, got %s", got)
	}
	v, ok := got.Types[0].(TVec)
	if !ok {
		t.Fatalf("expected TVec, got %T", got.Types[0])
	}
	if len(v.Param.Types) != 2 {
		t.Fatalf("expected vec<int|string>, got vec<%s>", v.Param)
	}
}

func TestCombineDictKnownEntriesMerge(t *testing.T) {
	a := New(TDict{Known: map[string]KnownEntry{"x": {Type: Single(TInt{})}}})
	b := New(TDict{Known: map[string]KnownEntry{"y": {Type: Single(TString{})}}})
	got := Combine([]*Union{a, b}, nil, false)
	d := got.Types[0].(TDict)
	if len(d.Known) != 2 {
		t.Fatalf("expected both keys present, got %v", d.Known)
	}
	if !d.Known["x"].PossiblyUndefined || !d.Known["y"].PossiblyUndefined {
		t.Fatalf("keys absent from one side must become possibly-undefined")
	}
}

func TestCombineObjectsJoinTypeParamsCovariantly(t *testing.T) {
	a := New(TNamedObject{Name: "Box", TypeParams: []*Union{Single(TInt{})}})
	b := New(TNamedObject{Name: "Box", TypeParams: []*Union{Single(TString{})}})
	got := Combine([]*Union{a, b}, nil, false)
	obj := got.Types[0].(TNamedObject)
	if len(obj.TypeParams[0].Types) != 2 {
		t.Fatalf("expected Box<int|string>, got Box<%s>", obj.TypeParams[0])
	}
}

func TestCombineSingleUnionReturnsClone(t *testing.T) {
	u := New(TInt{})
	got := Combine([]*Union{u}, nil, false)
	if got == u {
		t.Fatal("Combine of a single union should return a clone, not the same pointer")
	}
	if got.String() != "int" {
		t.Fatalf("got %s, want int", got)
	}
}

func TestCombinePropagatesMixed(t *testing.T) {
	got := Combine([]*Union{New(TInt{}), Mixed()}, nil, false)
	if !got.HasMixed {
		t.Fatal("combine with mixed should set HasMixed")
	}
}
