package codebase

import "github.com/glintanalyzer/glint/internal/typesystem"

// TypeDefinitionInfo reflects a `type`/`newtype` alias declaration.
type TypeDefinitionInfo struct {
	Name string

	// AsType is the declared upper bound (the `as` clause), used for
	// newtype opacity checks. Nil for a plain `type` alias.
	AsType *typesystem.Union

	// ActualType is the aliased type itself.
	ActualType *typesystem.Union

	TemplateTypes map[string]*typesystem.Union

	IsLiteralString bool
}

func NewTypeDefinitionInfo(name string, actual *typesystem.Union) *TypeDefinitionInfo {
	return &TypeDefinitionInfo{
		Name:          name,
		ActualType:    actual,
		TemplateTypes: make(map[string]*typesystem.Union),
	}
}
