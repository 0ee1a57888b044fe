package codebase

import (
	"github.com/glintanalyzer/glint/internal/pos"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// PropertyInfo reflects a declared class property.
type PropertyInfo struct {
	IsStatic   bool
	Visibility MemberVisibility

	Location     *pos.Pos
	TypeLocation *pos.Pos

	Type *typesystem.Union

	HasDefault   bool
	SoftReadonly bool
	IsPromoted   bool
}
