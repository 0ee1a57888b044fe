package codebase

import (
	"testing"

	"github.com/glintanalyzer/glint/internal/interner"
	"github.com/glintanalyzer/glint/internal/pos"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

func buildTestHierarchy() *Codebase {
	in := interner.New()
	cb := New(in)

	animalID := in.Intern("Animal")
	dogID := in.Intern("Dog")
	huntsID := in.Intern("Hunts")

	animal := NewClassLikeInfo(animalID, SymbolClass, pos.Pos{}, pos.Pos{})
	cb.Classlikes[animalID] = animal

	hunts := NewClassLikeInfo(huntsID, SymbolInterface, pos.Pos{}, pos.Pos{})
	cb.Classlikes[huntsID] = hunts

	dog := NewClassLikeInfo(dogID, SymbolClass, pos.Pos{}, pos.Pos{})
	dog.DirectParentClass = &animalID
	dog.AllParentClasses[animalID] = true
	dog.DirectClassInterfaces[huntsID] = true
	dog.AllClassInterfaces[huntsID] = true
	dog.TemplateVariance = []typesystem.Variance{typesystem.Covariant}
	cb.Classlikes[dogID] = dog

	bark := NewFunctionLikeInfo("bark")
	dog.Methods[in.Intern("bark")] = bark

	return cb
}

func TestIsInstanceOfReflexiveAndTransitive(t *testing.T) {
	cb := buildTestHierarchy()
	if !cb.IsInstanceOf("Dog", "Dog") {
		t.Fatal("a class must be an instance of itself")
	}
	if !cb.IsInstanceOf("Dog", "Animal") {
		t.Fatal("Dog extends Animal")
	}
	if !cb.IsInstanceOf("Dog", "Hunts") {
		t.Fatal("Dog implements Hunts")
	}
	if cb.IsInstanceOf("Animal", "Dog") {
		t.Fatal("Animal does not extend Dog")
	}
}

func TestIsInstanceOfUnknownClassIsFalse(t *testing.T) {
	cb := buildTestHierarchy()
	if cb.IsInstanceOf("Ghost", "Animal") {
		t.Fatal("an unregistered class can't be an instance of anything")
	}
}

func TestClassTemplateVariance(t *testing.T) {
	cb := buildTestHierarchy()
	variance := cb.ClassTemplateVariance("Dog")
	if len(variance) != 1 || variance[0] != typesystem.Covariant {
		t.Fatalf("expected a single covariant template parameter, got %v", variance)
	}
	if cb.ClassTemplateVariance("Ghost") != nil {
		t.Fatal("an unregistered class should report no template variance")
	}
}

func TestResolveMethodWalksParentChain(t *testing.T) {
	cb := buildTestHierarchy()
	in := cb.Interner
	dogID, _ := in.Get("Dog")

	if _, ok := cb.ResolveMethod(dogID, in.Intern("bark")); !ok {
		t.Fatal("bark is declared directly on Dog")
	}

	animalID, _ := in.Get("Animal")
	eat := NewFunctionLikeInfo("eat")
	cb.Classlikes[animalID].Methods[in.Intern("eat")] = eat

	m, ok := cb.ResolveMethod(dogID, in.Intern("eat"))
	if !ok || m != eat {
		t.Fatal("eat should resolve through Dog's parent class Animal")
	}

	if _, ok := cb.ResolveMethod(dogID, in.Intern("fly")); ok {
		t.Fatal("fly is declared nowhere in the hierarchy")
	}
}
