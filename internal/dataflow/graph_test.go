package dataflow

import "testing"

func TestAddEdgeRejectsSelfLoop(t *testing.T) {
	g := NewGraph(FunctionBody)
	if g.AddEdge("a", "a", Path{Kind: PathDefault}) {
		t.Fatalf("expected self-loop edge to be rejected")
	}
	if len(g.ForwardEdges("a")) != 0 {
		t.Fatalf("self-loop must not be recorded")
	}
}

func TestReachesAnySink(t *testing.T) {
	g := NewGraph(FunctionBody)
	g.AddNode(Node{ID: "src", Kind: VariableUseSource})
	g.AddNode(Node{ID: "mid", Kind: Vertex})
	g.AddNode(Node{ID: "sink", Kind: VariableUseSink})
	g.AddEdge("src", "mid", Path{Kind: PathDefault})
	g.AddEdge("mid", "sink", Path{Kind: PathDefault})

	if !g.ReachesAnySink("src") {
		t.Fatalf("expected src to reach sink")
	}

	g2 := NewGraph(FunctionBody)
	g2.AddNode(Node{ID: "lonely", Kind: VariableUseSource})
	if g2.ReachesAnySink("lonely") {
		t.Fatalf("lonely node should not reach any sink")
	}
}

func TestMergeCombinesForwardEdges(t *testing.T) {
	a := NewGraph(FunctionBody)
	a.AddNode(Node{ID: "x", Kind: Vertex})
	a.AddNode(Node{ID: "y", Kind: VariableUseSink})
	a.AddEdge("x", "y", Path{Kind: PathDefault})

	b := NewGraph(FunctionBody)
	b.AddNode(Node{ID: "p", Kind: VariableUseSource})
	b.AddNode(Node{ID: "q", Kind: VariableUseSink})
	b.AddEdge("p", "q", Path{Kind: PathDefault})

	a.Merge(b)

	if !a.ReachesAnySink("p") {
		t.Fatalf("merged graph should retain edges from b")
	}
	if len(a.Nodes) != 4 {
		t.Fatalf("expected 4 nodes after merge, got %d", len(a.Nodes))
	}
}

func TestSpecializationKeyFallsBackToUUID(t *testing.T) {
	k1 := SpecializationKey(nil)
	k2 := SpecializationKey(nil)
	if k1 == k2 {
		t.Fatalf("expected distinct fallback keys, got identical %q", k1)
	}
}
