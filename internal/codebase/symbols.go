// Package codebase is the immutable reflection model the engine consults
// while analyzing function bodies: class hierarchy, function/method
// signatures, property types, and type alias definitions. It is built once
// per run from every file's declarations before any function body is
// analyzed, then shared by reference (never mutated) across every
// concurrent analysis worker.
package codebase

import "github.com/glintanalyzer/glint/internal/interner"

// SymbolKind classifies a top-level declared name.
type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolEnum
	SymbolEnumClass
	SymbolTrait
	SymbolInterface
	SymbolTypeDefinition
	SymbolFunction
)

// Symbols is the flat name -> kind index, plus the file each classlike was
// declared in (used for incremental invalidation and "go to definition").
type Symbols struct {
	All            map[interner.ID]SymbolKind
	ClasslikeFiles map[interner.ID]string
}

func NewSymbols() *Symbols {
	return &Symbols{
		All:            make(map[interner.ID]SymbolKind),
		ClasslikeFiles: make(map[interner.ID]string),
	}
}

func (s *Symbols) addClasslike(name interner.ID, kind SymbolKind, file string) {
	s.All[name] = kind
	if file != "" {
		s.ClasslikeFiles[name] = file
	}
}

func (s *Symbols) AddClassName(name interner.ID, file string)      { s.addClasslike(name, SymbolClass, file) }
func (s *Symbols) AddEnumClassName(name interner.ID, file string)  { s.addClasslike(name, SymbolEnumClass, file) }
func (s *Symbols) AddInterfaceName(name interner.ID, file string)  { s.addClasslike(name, SymbolInterface, file) }
func (s *Symbols) AddTraitName(name interner.ID, file string)      { s.addClasslike(name, SymbolTrait, file) }
func (s *Symbols) AddEnumName(name interner.ID, file string)       { s.addClasslike(name, SymbolEnum, file) }
func (s *Symbols) AddTypeDefinitionName(name interner.ID)          { s.All[name] = SymbolTypeDefinition }
func (s *Symbols) AddFunctionName(name interner.ID)                { s.All[name] = SymbolFunction }

func (s *Symbols) Kind(name interner.ID) (SymbolKind, bool) {
	k, ok := s.All[name]
	return k, ok
}
