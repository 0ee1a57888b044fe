package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/glintanalyzer/glint/internal/ast"
	"github.com/glintanalyzer/glint/internal/codebase"
	"github.com/glintanalyzer/glint/internal/dataflow"
	"github.com/glintanalyzer/glint/internal/pipeline"
	"github.com/glintanalyzer/glint/internal/pos"
)

func at(start, end uint32) pos.Pos { return pos.New(0, start, end) }

func TestWriteTextReportsUndefinedVariable(t *testing.T) {
	// function f() { return $missing; }
	missing := &ast.Variable{Name: "$missing"}
	missing.At = at(0, 8)
	ret := &ast.ReturnStatement{Value: missing}
	ret.At = at(0, 9)
	body := &ast.Block{Statements: []ast.Statement{ret}}
	body.At = at(0, 9)
	fn := &ast.Function{Name: "f", Body: body}
	fn.At = at(0, 9)

	unit := pipeline.FileUnit{
		Path: "bad.hack",
		Functions: []pipeline.FunctionUnit{
			{AST: fn, Info: codebase.NewFunctionLikeInfo("f")},
		},
	}

	p := pipeline.New(nil, pipeline.Config{GraphKind: dataflow.FunctionBody})
	result, err := p.Run(context.Background(), []pipeline.FileUnit{unit})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, result); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "bad.hack") || !strings.Contains(out, "UndefinedVariable") {
		t.Fatalf("expected report to mention bad.hack and UndefinedVariable, got: %s", out)
	}

	counts := Summarize(result)
	if len(counts) == 0 || counts[0].Count == 0 {
		t.Fatalf("expected a non-empty issue summary, got %v", counts)
	}
}
