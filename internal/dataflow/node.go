// Package dataflow implements the per-function-body and whole-program data
// flow graph: nodes, edges and the taint vocabulary carried on them.
package dataflow

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/glintanalyzer/glint/internal/pos"
)

// Kind distinguishes the node variants a data-flow graph tracks.
type Kind int

const (
	Vertex Kind = iota
	VariableUseSource
	VariableUseSink
	ForLoopInit
	DataSource
	TaintSource
	TaintSink
)

func (k Kind) String() string {
	switch k {
	case Vertex:
		return "vertex"
	case VariableUseSource:
		return "variable_use_source"
	case VariableUseSink:
		return "variable_use_sink"
	case ForLoopInit:
		return "for_loop_init"
	case DataSource:
		return "data_source"
	case TaintSource:
		return "taint_source"
	case TaintSink:
		return "taint_sink"
	default:
		return "unknown"
	}
}

// VariableSourceKind refines a VariableUseSource node for unused-variable
// and writes-before-reads detection.
type VariableSourceKind int

const (
	SourceDefault VariableSourceKind = iota
	SourcePrivateParam
	SourceNonPrivateParam
	SourceInoutParam
	SourceClosureParam
)

// SourceType and SinkType name the taint vocabulary a node may carry.
// Nodes only ever populate one of SourceTypes (TaintSource) or SinkTypes
// (TaintSink); edges separately carry AddedTaints/RemovedTaints to model
// sanitizers along the path.
type SourceType string

const (
	SourceUserInput     SourceType = "user_input"
	SourceCookie        SourceType = "cookie"
	SourceRequestHeader SourceType = "request_header"
	SourceServerVar     SourceType = "server_var"
	SourceFileSystem    SourceType = "file_system"
)

type SinkType string

const (
	SinkSQL        SinkType = "sql"
	SinkHTML       SinkType = "html"
	SinkURL        SinkType = "url"
	SinkShell      SinkType = "shell"
	SinkFileSystem SinkType = "file_system"
	SinkSerialize  SinkType = "unserialize"
)

// Node is a vertex in the data-flow graph. Its id is deterministic: it
// concatenates (label, source byte-range, optional specialization key) so
// that repeated analyses of the same source produce identical ids, which
// incremental caches depend on.
type Node struct {
	ID   string
	Kind Kind

	Label string
	Pos   *pos.Pos

	// UnspecializedID is set when this node was specialized by call-site;
	// it is the id the node would have had without specialization.
	UnspecializedID   string
	SpecializationKey string

	VarSourceKind VariableSourceKind
	Pure          bool
	HasAwaitable  bool

	SourceTypes map[SourceType]struct{}
	SinkTypes   map[SinkType]struct{}
}

// New builds a generic Vertex node, applying a specialization key the same
// way the engine's source lineage does: append "-<key>" to the id and
// remember the unspecialized id for later lookups.
func New(id, label string, p *pos.Pos, specializationKey string) Node {
	n := Node{Label: label, Pos: p, Kind: Vertex}
	if specializationKey != "" {
		n.UnspecializedID = id
		n.SpecializationKey = specializationKey
		id = id + "-" + specializationKey
	}
	n.ID = id
	return n
}

// SpecializationKey derives a call-site specialization key from a
// position. When no position is available (e.g. a closure synthesized
// without source, such as a reflectively-built callable), a random UUID is
// used instead so call sites still get distinct specialized nodes rather
// than silently colliding.
func SpecializationKey(callPos *pos.Pos) string {
	if callPos == nil {
		return uuid.NewString()
	}
	return fmt.Sprintf("%d:%d", callPos.File, callPos.Start)
}

// ForMethodArgument builds the node representing the Nth parameter (1-based
// in the id, matching the source lineage's human-readable "#1" suffixes)
// of methodID as an argument sink.
func ForMethodArgument(methodID string, argumentOffset int, argLoc *pos.Pos, callPos *pos.Pos) Node {
	argID := fmt.Sprintf("%s#%d", methodID, argumentOffset+1)
	var key string
	if callPos != nil {
		key = SpecializationKey(callPos)
	}
	return New(argID, argID, argLoc, key)
}

// ForMethodArgumentOut builds the "out " variant used for inout parameter
// writeback.
func ForMethodArgumentOut(methodID string, argumentOffset int, argLoc *pos.Pos, callPos *pos.Pos) Node {
	argID := fmt.Sprintf("out %s#%d", methodID, argumentOffset+1)
	var key string
	if callPos != nil {
		key = SpecializationKey(callPos)
	}
	return New(argID, argID, argLoc, key)
}

// ForAssignment builds the fresh node an assignment creates; the variable's
// parent-node set is replaced by exactly this node (invariant I4).
func ForAssignment(varID string, assignLoc pos.Pos) Node {
	id := fmt.Sprintf("%s-%d:%d-%d", varID, assignLoc.File, assignLoc.Start, assignLoc.End)
	return New(id, varID, &assignLoc, "")
}

// ForComposition builds the node representing a composed value (string
// concatenation, arithmetic, array element access).
func ForComposition(loc pos.Pos) Node {
	id := fmt.Sprintf("composition-%d:%d-%d", loc.File, loc.Start, loc.End)
	return New(id, "composition", &loc, "")
}

// NewVariableUseSource builds a source node for a variable binding site
// (parameter, foreach target, catch binding, ...).
func NewVariableUseSource(p pos.Pos, label string, kind VariableSourceKind, pure, hasAwaitable bool) Node {
	return Node{
		ID:            fmt.Sprintf("%s-%d:%d-%d", label, p.File, p.Start, p.End),
		Kind:          VariableUseSource,
		Label:         label,
		Pos:           &p,
		VarSourceKind: kind,
		Pure:          pure,
		HasAwaitable:  hasAwaitable,
	}
}

// NewVariableUseSink builds a sink node for a variable read.
func NewVariableUseSink(p pos.Pos) Node {
	return Node{
		ID:    fmt.Sprintf("sink-%d:%d-%d", p.File, p.Start, p.End),
		Kind:  VariableUseSink,
		Label: "variable use",
		Pos:   &p,
	}
}

// NewForLoopInit labels a variable as originating in a for-loop's init
// clause, so downstream unused-code checks can special-case it.
func NewForLoopInit(varName string, start, end uint32) Node {
	return Node{
		ID:    fmt.Sprintf("for-loop-init-%s-%d-%d", varName, start, end),
		Kind:  ForLoopInit,
		Label: varName,
	}
}

// NewTaintSource builds a whole-program-taint-mode source node.
func NewTaintSource(id, label string, p *pos.Pos, types ...SourceType) Node {
	set := make(map[SourceType]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return Node{ID: id, Kind: TaintSource, Label: label, Pos: p, SourceTypes: set}
}

// NewTaintSink builds a whole-program-taint-mode sink node.
func NewTaintSink(id, label string, p *pos.Pos, types ...SinkType) Node {
	set := make(map[SinkType]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return Node{ID: id, Kind: TaintSink, Label: label, Pos: p, SinkTypes: set}
}
