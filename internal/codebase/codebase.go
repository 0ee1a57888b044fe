package codebase

import (
	"github.com/glintanalyzer/glint/internal/interner"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// Codebase is the fully populated, read-only reflection model for one
// analysis run. It is built once from every scanned file's declarations
// and then shared by reference across every concurrent analysis worker;
// nothing in the engine ever mutates it after population finishes.
type Codebase struct {
	Interner *interner.Interner

	Symbols *Symbols

	Classlikes      map[interner.ID]*ClassLikeInfo
	Functions       map[interner.ID]*FunctionLikeInfo
	TypeDefinitions map[interner.ID]*TypeDefinitionInfo
}

func New(in *interner.Interner) *Codebase {
	return &Codebase{
		Interner:        in,
		Symbols:         NewSymbols(),
		Classlikes:      make(map[interner.ID]*ClassLikeInfo),
		Functions:       make(map[interner.ID]*FunctionLikeInfo),
		TypeDefinitions: make(map[interner.ID]*TypeDefinitionInfo),
	}
}

func (cb *Codebase) classlikeByName(name string) (*ClassLikeInfo, bool) {
	id, ok := cb.Interner.Get(name)
	if !ok {
		return nil, false
	}
	info, ok := cb.Classlikes[id]
	return info, ok
}

// IsInstanceOf reports whether child extends or implements ancestor,
// directly or transitively, treating every class as an instance of
// itself. Satisfies typesystem.ClassHierarchy.
func (cb *Codebase) IsInstanceOf(child, ancestor string) bool {
	if child == ancestor {
		return true
	}
	info, ok := cb.classlikeByName(child)
	if !ok {
		return false
	}
	ancestorID, ok := cb.Interner.Get(ancestor)
	if !ok {
		return false
	}
	if info.AllParentClasses[ancestorID] {
		return true
	}
	return info.AllClassInterfaces[ancestorID]
}

// TemplateExtendedParams returns the substitution child supplies for
// ancestor's template parameters, e.g. for `class Box<V> extends
// Container<V>` it returns Container's template param name mapped to V's
// resolved union. Satisfies typesystem.ClassHierarchy.
func (cb *Codebase) TemplateExtendedParams(child, ancestor string) map[string]*typesystem.Union {
	info, ok := cb.classlikeByName(child)
	if !ok {
		return nil
	}
	ancestorID, ok := cb.Interner.Get(ancestor)
	if !ok {
		return nil
	}
	return info.TemplateExtendedParams[ancestorID]
}

// ClassTemplateVariance returns the declared variance of className's own
// template parameters, in declaration order. Satisfies both
// typesystem.ClassHierarchy and typesystem.VarianceLookup.
func (cb *Codebase) ClassTemplateVariance(className string) []typesystem.Variance {
	info, ok := cb.classlikeByName(className)
	if !ok {
		return nil
	}
	return info.TemplateVariance
}

// ResolveFunction looks up a declared free function by its global name.
func (cb *Codebase) ResolveFunction(name string) (*FunctionLikeInfo, bool) {
	id, ok := cb.Interner.Get(name)
	if !ok {
		return nil, false
	}
	info, ok := cb.Functions[id]
	return info, ok
}

// ResolveMethod walks child's hierarchy (itself, then ancestors) looking
// for the first declaration of methodName, the way method calls are
// resolved against inherited and trait-provided members.
func (cb *Codebase) ResolveMethod(className interner.ID, methodName interner.ID) (*FunctionLikeInfo, bool) {
	info, ok := cb.Classlikes[className]
	if !ok {
		return nil, false
	}
	if m, ok := info.Methods[methodName]; ok {
		return m, true
	}
	if info.DirectParentClass != nil {
		return cb.ResolveMethod(*info.DirectParentClass, methodName)
	}
	return nil, false
}
