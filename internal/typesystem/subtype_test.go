package typesystem

import "testing"

func TestIsContainedByReflexive(t *testing.T) {
	u := New(TInt{}, TString{})
	ok, _ := IsContainedBy(u, u, nil)
	if !ok {
		t.Fatal("a union must be contained by itself")
	}
}

func TestIsContainedByMixedAcceptsAnything(t *testing.T) {
	ok, _ := IsContainedBy(New(TInt{}), Mixed(), nil)
	if !ok {
		t.Fatal("mixed must contain any type")
	}
}

func TestLiteralContainedByPlainSupertype(t *testing.T) {
	ok, _ := IsContainedBy(New(TLiteralInt{Value: 5}), New(TInt{}), nil)
	if !ok {
		t.Fatal("a literal int must be contained by int")
	}
}

func TestIntNotContainedByLiteral(t *testing.T) {
	ok, _ := IsContainedBy(New(TInt{}), New(TLiteralInt{Value: 5}), nil)
	if ok {
		t.Fatal("plain int must not be contained by a narrower literal")
	}
}

func TestScalarLattice(t *testing.T) {
	ok, _ := IsContainedBy(New(TInt{}), New(TArraykey{}), nil)
	if !ok {
		t.Fatal("int must be contained by arraykey")
	}
	ok, _ = IsContainedBy(New(TString{}), New(TArraykey{}), nil)
	if !ok {
		t.Fatal("string must be contained by arraykey")
	}
	ok, _ = IsContainedBy(New(TBool{}), New(TArraykey{}), nil)
	if ok {
		t.Fatal("bool must not be contained by arraykey")
	}
}

func TestVecContainmentStructural(t *testing.T) {
	in := New(TVec{Param: Single(TLiteralInt{Value: 1})})
	out := New(TVec{Param: Single(TInt{})})
	ok, _ := IsContainedBy(in, out, nil)
	if !ok {
		t.Fatal("vec<literal int> must be contained by vec<int>")
	}
}

func TestVecKnownEntriesRequireEachIndex(t *testing.T) {
	in := New(TVec{Known: map[int]KnownEntry{0: {Type: Single(TInt{})}}})
	out := New(TVec{Known: map[int]KnownEntry{0: {Type: Single(TString{})}}})
	ok, _ := IsContainedBy(in, out, nil)
	if ok {
		t.Fatal("vec(0: int) must not be contained by vec(0: string)")
	}
}

func TestClosureContravariantParams(t *testing.T) {
	// (arraykey) -> int must be contained by (int) -> int, since the
	// container's call sites only ever pass an int argument.
	in := New(TClosure{Params: []*Union{Single(TArraykey{})}, Return: Single(TInt{})})
	out := New(TClosure{Params: []*Union{Single(TInt{})}, Return: Single(TInt{})})
	ok, _ := IsContainedBy(in, out, nil)
	if !ok {
		t.Fatal("closure params are contravariant: wider input param must be accepted")
	}
}

func TestClosureReturnCovariant(t *testing.T) {
	in := New(TClosure{Params: []*Union{Single(TInt{})}, Return: Single(TLiteralInt{Value: 1})})
	out := New(TClosure{Params: []*Union{Single(TInt{})}, Return: Single(TInt{})})
	ok, _ := IsContainedBy(in, out, nil)
	if !ok {
		t.Fatal("closure return types are covariant: narrower return must be accepted")
	}
}

type fakeHierarchy struct {
	parents map[string][]string
}

func (f fakeHierarchy) IsInstanceOf(child, ancestor string) bool {
	if child == ancestor {
		return true
	}
	for _, p := range f.parents[child] {
		if f.IsInstanceOf(p, ancestor) {
			return true
		}
	}
	return false
}

func (f fakeHierarchy) TemplateExtendedParams(child, ancestor string) map[string]*Union { return nil }
func (f fakeHierarchy) ClassTemplateVariance(className string) []Variance              { return nil }

func TestNamedObjectNominalHierarchy(t *testing.T) {
	h := fakeHierarchy{parents: map[string][]string{"Dog": {"Animal"}}}
	ok, _ := IsContainedBy(New(TNamedObject{Name: "Dog"}), New(TNamedObject{Name: "Animal"}), h)
	if !ok {
		t.Fatal("Dog should be contained by Animal given the hierarchy")
	}
	ok, _ = IsContainedBy(New(TNamedObject{Name: "Cat"}), New(TNamedObject{Name: "Animal"}), h)
	if ok {
		t.Fatal("Cat should not be contained by Animal: no such relationship registered")
	}
}
