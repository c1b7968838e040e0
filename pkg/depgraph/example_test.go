package depgraph_test

import (
	"fmt"

	"github.com/matzehuels/modgraph/pkg/depgraph"
	"github.com/matzehuels/modgraph/pkg/style"
)

func ExampleBuild() {
	m := depgraph.NewMapping().
		Set("app", "db", "auth").
		Set("auth", "db").
		Set("db")

	g := depgraph.Build(m, nil, style.Default())

	for _, n := range g.Nodes() {
		fmt.Printf("%s: %s\n", n.ID, n.Class)
	}
	fmt.Println("edges:", g.EdgeCount())
	// Output:
	// app: default
	// db: no-dependency
	// auth: default
	// edges: 3
}

func ExampleFindCycles() {
	m := depgraph.NewMapping().
		Set("a.js", "b.js").
		Set("b.js", "c.js").
		Set("c.js", "a.js")

	fmt.Println(depgraph.FindCycles(m))
	// Output:
	// [[a.js b.js c.js]]
}
