package graph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/cardgraph/pkg/graph"
)

func ExampleRead() {
	input := `
nodes:
  - id: api
    displayName: API Gateway
  - id: db
edges:
  - {from: api, to: db, label: reads}
`
	g, err := graph.Read(strings.NewReader(input), "yaml")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, n := range g.Nodes {
		fmt.Printf("node %s (%q)\n", n.ID, n.DisplayName)
	}
	for _, e := range g.Edges {
		fmt.Printf("edge %s -> %s [%s]\n", e.From, e.To, e.Label)
	}
	// Output:
	// node api ("API Gateway")
	// node db ("")
	// edge api -> db [reads]
}
