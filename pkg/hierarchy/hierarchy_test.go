package hierarchy

import (
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/cardgraph/pkg/model"
)

func build(t *testing.T, ids []string, edges [][2]string) *model.Graph {
	t.Helper()
	g := model.New()
	for _, id := range ids {
		if err := g.AddNode(model.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(model.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%s→%s): %v", e[0], e[1], err)
		}
	}
	return g
}

func levelOf(g *model.Graph, id string) int {
	n, _ := g.Node(id)
	return n.Level
}

func TestBuild_Tree(t *testing.T) {
	g := build(t, []string{"A", "B", "C", "D"}, [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}})
	res := Build(g)

	want := map[string]int{"A": 0, "B": 1, "C": 1, "D": 2}
	for id, l := range want {
		if got := levelOf(g, id); got != l {
			t.Errorf("level(%s) = %d, want %d", id, got, l)
		}
	}
	if !slices.Equal(res.Roots, []string{"A"}) {
		t.Errorf("Roots = %v, want [A]", res.Roots)
	}
	if res.FallbackRoot {
		t.Error("FallbackRoot should be false for a tree")
	}
}

func TestBuild_ShortestPathWins(t *testing.T) {
	// A→B→C→D and A→D: D is reached at distance 1 first.
	g := build(t, []string{"A", "B", "C", "D"}, [][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}, {"A", "D"}})
	Build(g)

	if got := levelOf(g, "D"); got != 1 {
		t.Errorf("level(D) = %d, want 1", got)
	}
}

func TestBuild_TwoNodeCycle(t *testing.T) {
	g := build(t, []string{"A", "B"}, [][2]string{{"A", "B"}, {"B", "A"}})
	res := Build(g)

	if !res.FallbackRoot {
		t.Error("FallbackRoot should be set when no node lacks parents")
	}
	if got := levelOf(g, "A"); got != 0 {
		t.Errorf("level(A) = %d, want 0", got)
	}
	if got := levelOf(g, "B"); got != 1 {
		t.Errorf("level(B) = %d, want 1", got)
	}
}

func TestBuild_FallbackPicksBusiestNode(t *testing.T) {
	// Every node has a parent; C has the most children.
	g := build(t, []string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}, {"C", "B"}})
	res := Build(g)

	if !slices.Equal(res.Roots, []string{"C"}) {
		t.Errorf("Roots = %v, want [C]", res.Roots)
	}
	if got := levelOf(g, "C"); got != 0 {
		t.Errorf("level(C) = %d, want 0", got)
	}
}

func TestBuild_Disconnected(t *testing.T) {
	g := build(t, []string{"x", "y", "z"}, nil)
	res := Build(g)

	for _, id := range []string{"x", "y", "z"} {
		if got := levelOf(g, id); got != 0 {
			t.Errorf("level(%s) = %d, want 0", id, got)
		}
	}
	if len(res.Roots) != 3 {
		t.Errorf("Roots = %v, want all three nodes", res.Roots)
	}
}

func TestBuild_UnreachableCycle(t *testing.T) {
	// R is a root; C↔D is a cycle no root reaches; E hangs below D.
	g := build(t, []string{"R", "S", "C", "D", "E"},
		[][2]string{{"R", "S"}, {"C", "D"}, {"D", "C"}, {"D", "E"}})
	res := Build(g)

	if !slices.Equal(res.Promoted, []string{"C"}) {
		t.Errorf("Promoted = %v, want [C]", res.Promoted)
	}
	want := map[string]int{"R": 0, "S": 1, "C": 0, "D": 1, "E": 2}
	for id, l := range want {
		if got := levelOf(g, id); got != l {
			t.Errorf("level(%s) = %d, want %d", id, got, l)
		}
	}
}

func TestBuild_Empty(t *testing.T) {
	res := Build(model.New())
	if len(res.Levels) != 0 || len(res.Roots) != 0 {
		t.Errorf("Build(empty) = %+v, want empty result", res)
	}
}

// TestBuild_Invariants checks that every node receives a non-negative level
// and that no edge used to reach a node points backward.
func TestBuild_Invariants(t *testing.T) {
	for n := 2; n <= 9; n++ {
		for seed := 0; seed < 20; seed++ {
			t.Run(fmt.Sprintf("n%d_s%d", n, seed), func(t *testing.T) {
				ids := make([]string, n)
				for i := range ids {
					ids[i] = fmt.Sprintf("n%d", i)
				}
				var edges [][2]string
				x := uint32(seed*7919 + n)
				for i := 0; i < n*2; i++ {
					x = x*1103515245 + 12345
					from := int(x>>16) % n
					x = x*1103515245 + 12345
					to := int(x>>16) % n
					edges = append(edges, [2]string{ids[from], ids[to]})
				}
				g := build(t, ids, edges)
				res := Build(g)

				if len(res.Levels) != n {
					t.Fatalf("assigned %d levels, want %d", len(res.Levels), n)
				}
				for _, node := range g.Nodes() {
					if node.Level < 0 {
						t.Errorf("level(%s) = %d, want >= 0", node.ID, node.Level)
					}
				}
				for child, parent := range res.TreeParent {
					if levelOf(g, child) <= levelOf(g, parent) {
						t.Errorf("tree edge %s→%s points backward (%d ≤ %d)",
							parent, child, levelOf(g, child), levelOf(g, parent))
					}
				}
			})
		}
	}
}
