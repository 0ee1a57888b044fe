package codebase

import (
	"github.com/glintanalyzer/glint/internal/dataflow"
	"github.com/glintanalyzer/glint/internal/pos"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// FunctionLikeParameter reflects one declared parameter.
type FunctionLikeParameter struct {
	Name string

	SignatureType *typesystem.Union
	IsInout       bool
	IsOptional    bool
	IsNullable    bool
	IsVariadic    bool

	Location         *pos.Pos
	PromotedProperty bool

	TaintSinks []dataflow.SinkType
}

// GetID renders the parameter's signature string, e.g. "int=" for an
// optional int parameter, used in method-id construction.
func (p *FunctionLikeParameter) GetID() string {
	s := "mixed"
	if p.SignatureType != nil {
		s = p.SignatureType.String()
	}
	if p.IsVariadic {
		s += "..."
	}
	if p.IsOptional {
		s += "="
	}
	return s
}

// MemberVisibility mirrors Hack's member visibility levels.
type MemberVisibility int

const (
	VisibilityPublic MemberVisibility = iota
	VisibilityProtected
	VisibilityPrivate
)

// MethodInfo is the method-only subset of a function-like's reflection.
type MethodInfo struct {
	IsStatic   bool
	Visibility MemberVisibility
	IsFinal    bool
	IsAbstract bool
}

// FunctionLikeInfo reflects a declared function, method, or closure
// signature: everything the engine needs to type-check calls to it
// without re-parsing its body.
type FunctionLikeInfo struct {
	Name string

	Params     []*FunctionLikeParameter
	ReturnType *typesystem.Union

	DefLocation *pos.Pos

	Effects typesystem.EffectMask

	IsAsync   bool
	Pure      bool
	Deprecated bool

	// TemplateTypes is this function's own generic parameters, by name.
	TemplateTypes map[string]*typesystem.Union

	AddedTaints   []dataflow.SinkType
	RemovedTaints []dataflow.SinkType

	MethodInfo *MethodInfo
}

func NewFunctionLikeInfo(name string) *FunctionLikeInfo {
	return &FunctionLikeInfo{
		Name:          name,
		TemplateTypes: make(map[string]*typesystem.Union),
	}
}

// ParamAt returns the Nth declared parameter, falling back to the last
// parameter when it is variadic and n is past the end.
func (f *FunctionLikeInfo) ParamAt(n int) *FunctionLikeParameter {
	if n < len(f.Params) {
		return f.Params[n]
	}
	if len(f.Params) > 0 {
		last := f.Params[len(f.Params)-1]
		if last.IsVariadic {
			return last
		}
	}
	return nil
}
