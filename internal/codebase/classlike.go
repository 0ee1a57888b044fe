package codebase

import (
	"github.com/glintanalyzer/glint/internal/interner"
	"github.com/glintanalyzer/glint/internal/pos"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// ClassLikeInfo reflects a declared class, interface, trait, or enum: its
// hierarchy, members, and generic template machinery.
type ClassLikeInfo struct {
	Name interner.ID
	Kind SymbolKind

	DefLocation  pos.Pos
	NameLocation pos.Pos

	IsAbstract bool
	IsFinal    bool
	IsUserDefined bool

	DirectParentClass *interner.ID
	AllParentClasses  map[interner.ID]bool

	DirectClassInterfaces map[interner.ID]bool
	AllClassInterfaces    map[interner.ID]bool

	UsedTraits map[interner.ID]bool

	Methods    map[interner.ID]*FunctionLikeInfo
	Properties map[interner.ID]*PropertyInfo
	Constants  map[interner.ID]*ConstantInfo

	// TemplateTypes is the de-facto ordered list of this class's own
	// generic template parameters, name -> declaring-entity -> as-bound.
	TemplateTypes map[string]*typesystem.Union

	// TemplateVariance records the declared variance of each template
	// parameter by its position in TemplateTypes' declaration order.
	TemplateVariance []typesystem.Variance

	// TemplateExtendedParams maps an ancestor class name to the
	// substitution this class supplies for the ancestor's own template
	// parameters, e.g. `class Box<V> extends Container<int>` records
	// Container -> {"T": int}.
	TemplateExtendedParams map[interner.ID]map[string]*typesystem.Union

	EnumType *typesystem.Atomic
}

func NewClassLikeInfo(name interner.ID, kind SymbolKind, def, nameLoc pos.Pos) *ClassLikeInfo {
	return &ClassLikeInfo{
		Name:                   name,
		Kind:                   kind,
		DefLocation:            def,
		NameLocation:           nameLoc,
		AllParentClasses:       make(map[interner.ID]bool),
		DirectClassInterfaces:  make(map[interner.ID]bool),
		AllClassInterfaces:     make(map[interner.ID]bool),
		UsedTraits:             make(map[interner.ID]bool),
		Methods:                make(map[interner.ID]*FunctionLikeInfo),
		Properties:             make(map[interner.ID]*PropertyInfo),
		Constants:              make(map[interner.ID]*ConstantInfo),
		TemplateTypes:          make(map[string]*typesystem.Union),
		TemplateExtendedParams: make(map[interner.ID]map[string]*typesystem.Union),
	}
}

// ConstantInfo reflects a class constant declaration.
type ConstantInfo struct {
	Type     *typesystem.Union
	Location pos.Pos
	IsAbstract bool
}
