// Package analyzer is the per-function-body flow-sensitive engine: the
// expression and statement analyzers, control-flow merge, and the
// function-like driver that ties them together with the type lattice
// (internal/typesystem), the CNF assertion algebra (internal/algebra),
// the reconciler (internal/reconcile), the block context
// (internal/context), and the data-flow graph (internal/dataflow).
package analyzer

import (
	"github.com/glintanalyzer/glint/internal/dataflow"
	"github.com/glintanalyzer/glint/internal/issues"
	"github.com/glintanalyzer/glint/internal/pos"
	"github.com/glintanalyzer/glint/internal/typesystem"
)

// Data is one file's accumulated per-expression output: expression types,
// expression effects, and the data-flow graph, keyed by the expression's
// own byte range rather than a separate node id.
type Data struct {
	ExprTypes   map[pos.Key]*typesystem.Union
	ExprEffects map[pos.Key]typesystem.EffectMask
	Graph       *dataflow.Graph
	Accumulator *issues.Accumulator
}

func NewData(file string, graphKind dataflow.GraphKind, suppressions *issues.Suppressions, fixmes issues.FixmeTable) *Data {
	return &Data{
		ExprTypes:   make(map[pos.Key]*typesystem.Union),
		ExprEffects: make(map[pos.Key]typesystem.EffectMask),
		Graph:       dataflow.NewGraph(graphKind),
		Accumulator: issues.NewAccumulator(file, suppressions, fixmes),
	}
}

func (d *Data) setType(at pos.Pos, u *typesystem.Union) {
	d.ExprTypes[at.Key()] = u
}

func (d *Data) setEffects(at pos.Pos, e typesystem.EffectMask) {
	d.ExprEffects[at.Key()] = e
}

// TypeOf returns the type recorded for a byte range, or mixed if none was
// ever recorded (a defensive fallback; every expression analyzed records
// one).
func (d *Data) TypeOf(at pos.Pos) *typesystem.Union {
	if u, ok := d.ExprTypes[at.Key()]; ok {
		return u
	}
	return typesystem.Mixed()
}
