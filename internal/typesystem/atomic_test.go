package typesystem

import "testing"

func TestAtomicStrings(t *testing.T) {
	tests := []struct {
		name string
		atom Atomic
		want string
	}{
		{"int", TInt{}, "int"},
		{"literal int", TLiteralInt{Value: 42}, "42"},
		{"literal string", TLiteralString{Value: "hi"}, `"hi"`},
		{"vec of int", TVec{Param: Single(TInt{})}, "vec<int>"},
		{"keyset of string", TKeyset{Param: Single(TString{})}, "keyset<string>"},
		{"dict", TDict{Key: Single(TArraykey{}), Value: Single(TMixed{})}, "dict<arraykey, mixed>"},
		{"enum case", TEnumCase{EnumName: "Suit", CaseName: "HEARTS"}, "Suit::HEARTS"},
		{"named object", TNamedObject{Name: "Foo"}, "Foo"},
		{"generic param", TGenericParam{Name: "T"}, "T"},
		{"awaitable", TAwaitable{Inner: Single(TInt{})}, "Awaitable<int>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.atom.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAtomicEqual(t *testing.T) {
	if !AtomicEqual(TInt{}, TInt{}) {
		t.Error("TInt{} should equal TInt{}")
	}
	if AtomicEqual(TInt{}, TString{}) {
		t.Error("TInt{} should not equal TString{}")
	}
	if AtomicEqual(TLiteralInt{Value: 1}, TLiteralInt{Value: 2}) {
		t.Error("distinct literal ints should not be equal")
	}
	if !AtomicEqual(TLiteralInt{Value: 7}, TLiteralInt{Value: 7}) {
		t.Error("identical literal ints should be equal")
	}
}

func TestIsLiteral(t *testing.T) {
	if !IsLiteral(TLiteralInt{Value: 1}) {
		t.Error("TLiteralInt should be a literal")
	}
	if IsLiteral(TInt{}) {
		t.Error("TInt should not be a literal")
	}
}

func TestEffectMask(t *testing.T) {
	if !EffectPure.IsPure() {
		t.Error("EffectPure should be pure")
	}
	m := EffectWriteProps | EffectImpure
	if m.IsPure() {
		t.Error("combined mask should not be pure")
	}
	if !m.Has(EffectWriteProps) {
		t.Error("mask should have EffectWriteProps")
	}
	if m.Has(EffectWriteLocalProps) {
		t.Error("mask should not have EffectWriteLocalProps")
	}
}
