package depgraph

import (
	"reflect"
	"testing"

	"github.com/matzehuels/modgraph/pkg/style"
)

func testConfig() style.Config {
	return style.Default()
}

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestBuild_LeafAndNoCycles(t *testing.T) {
	m := NewMapping().Set("A", "B").Set("B").Set("C", "A")
	cfg := testConfig()

	g := Build(m, nil, cfg)

	if got, want := ids(g.Nodes()), []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Nodes() = %v, want %v", got, want)
	}

	b, _ := g.Node("B")
	if b.Class != ClassNoDependency {
		t.Errorf("B class = %v, want no-dependency", b.Class)
	}
	if b.Attrs["color"] != cfg.NoDependencyColor || b.Attrs["fontcolor"] != cfg.NoDependencyColor {
		t.Errorf("B attrs = %v, want no-dependency colours", b.Attrs)
	}

	want := []Edge{{"A", "B"}, {"C", "A"}}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}

	for _, n := range g.Nodes() {
		if n.Class == ClassCyclic {
			t.Errorf("node %s styled cyclic without cycles", n.ID)
		}
	}
	a, _ := g.Node("A")
	if a.Class != ClassDefault || len(a.Attrs) != 0 {
		t.Errorf("A = %+v, want default class without overrides", a)
	}
}

func TestBuild_MutualCycle(t *testing.T) {
	m := NewMapping().Set("A", "B").Set("B", "A")
	cfg := testConfig()

	g := Build(m, [][]string{{"A", "B"}}, cfg)

	for _, id := range []string{"A", "B"} {
		n, ok := g.Node(id)
		if !ok {
			t.Fatalf("missing node %s", id)
		}
		if n.Class != ClassCyclic {
			t.Errorf("%s class = %v, want cyclic", id, n.Class)
		}
		if n.Attrs["color"] != cfg.CyclicNodeColor {
			t.Errorf("%s color = %q, want %q", id, n.Attrs["color"], cfg.CyclicNodeColor)
		}
	}

	want := []Edge{{"A", "B"}, {"B", "A"}}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestBuild_SharedGroup(t *testing.T) {
	m := NewMapping().Set("A", "B")
	cfg := testConfig()
	cfg.NodeAttributes = func(id string) (style.NodeAttributes, bool) {
		return style.NodeAttributes{Group: "g1"}, true
	}

	g := Build(m, nil, cfg)

	sg, ok := g.Subgraph("g1")
	if !ok {
		t.Fatal("subgraph g1 not created")
	}
	if got := ids(sg.Nodes); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("g1 nodes = %v, want [A B]", got)
	}
	if !reflect.DeepEqual(sg.Edges, []Edge{{"A", "B"}}) {
		t.Errorf("g1 edges = %v, want [A->B]", sg.Edges)
	}
	if len(g.TopLevelEdges()) != 0 {
		t.Errorf("top-level edges = %v, want none", g.TopLevelEdges())
	}
	if len(g.TopLevelNodes()) != 0 {
		t.Errorf("top-level nodes = %v, want none", ids(g.TopLevelNodes()))
	}
}

func TestBuild_CrossGroupEdgeAtTopLevel(t *testing.T) {
	m := NewMapping().Set("api/a", "lib/b", "api/c").Set("api/c").Set("main", "api/a")
	cfg := testConfig()
	cfg.NodeAttributes = style.GroupRules([]style.GroupRule{
		{Name: "api", Patterns: []string{"api/*"}},
		{Name: "lib", Patterns: []string{"lib/*"}},
	})

	g := Build(m, nil, cfg)

	api, _ := g.Subgraph("api")
	lib, _ := g.Subgraph("lib")
	if got := ids(api.Nodes); !reflect.DeepEqual(got, []string{"api/a", "api/c"}) {
		t.Errorf("api nodes = %v", got)
	}
	if got := ids(lib.Nodes); !reflect.DeepEqual(got, []string{"lib/b"}) {
		t.Errorf("lib nodes = %v", got)
	}
	if !reflect.DeepEqual(api.Edges, []Edge{{"api/a", "api/c"}}) {
		t.Errorf("api edges = %v", api.Edges)
	}
	wantTop := []Edge{{"api/a", "lib/b"}, {"main", "api/a"}}
	if !reflect.DeepEqual(g.TopLevelEdges(), wantTop) {
		t.Errorf("top-level edges = %v, want %v", g.TopLevelEdges(), wantTop)
	}
	if got := ids(g.TopLevelNodes()); !reflect.DeepEqual(got, []string{"main"}) {
		t.Errorf("top-level nodes = %v, want [main]", got)
	}
}

func TestBuild_FirstSeenGroupWins(t *testing.T) {
	m := NewMapping().Set("A", "B").Set("C", "B")
	calls := map[string]int{}
	cfg := testConfig()
	cfg.NodeAttributes = func(id string) (style.NodeAttributes, bool) {
		calls[id]++
		if id == "B" {
			// A later lookup would report a different group.
			return style.NodeAttributes{Group: []string{"first", "second"}[calls[id]-1]}, true
		}
		return style.NodeAttributes{}, false
	}

	g := Build(m, nil, cfg)

	for id, n := range calls {
		if n != 1 {
			t.Errorf("callback called %d times for %s, want 1", n, id)
		}
	}
	b, _ := g.Node("B")
	if b.Group != "first" {
		t.Errorf("B group = %q, want first", b.Group)
	}
	if _, ok := g.Subgraph("second"); ok {
		t.Error("subgraph second should never be created")
	}
}

func TestBuild_DependencyGroupReusesSubgraph(t *testing.T) {
	// X is grouped before its dependency Y, which joins the same group as a
	// dependency target. Both must land in the one subgraph.
	m := NewMapping().Set("X", "Y")
	cfg := testConfig()
	cfg.NodeAttributes = func(id string) (style.NodeAttributes, bool) {
		return style.NodeAttributes{Group: "core"}, true
	}

	g := Build(m, nil, cfg)

	if n := len(g.Subgraphs()); n != 1 {
		t.Fatalf("subgraphs = %d, want 1", n)
	}
	sg := g.Subgraphs()[0]
	if got := ids(sg.Nodes); !reflect.DeepEqual(got, []string{"X", "Y"}) {
		t.Errorf("core nodes = %v", got)
	}
}

func TestBuild_DependencyOnlyGroupCreatesOwnSubgraph(t *testing.T) {
	m := NewMapping().Set("main", "lib/x")
	cfg := testConfig()
	cfg.NodeAttributes = style.GroupRules([]style.GroupRule{{Name: "lib", Patterns: []string{"lib/*"}}})

	g := Build(m, nil, cfg)

	sg, ok := g.Subgraph("lib")
	if !ok {
		t.Fatal("subgraph lib missing")
	}
	if got := ids(sg.Nodes); !reflect.DeepEqual(got, []string{"lib/x"}) {
		t.Errorf("lib nodes = %v", got)
	}
	if !reflect.DeepEqual(g.TopLevelEdges(), []Edge{{"main", "lib/x"}}) {
		t.Errorf("top-level edges = %v", g.TopLevelEdges())
	}
}

func TestBuild_SelfLoop(t *testing.T) {
	m := NewMapping().Set("A", "A")
	g := Build(m, [][]string{{"A"}}, testConfig())

	if g.NodeCount() != 1 {
		t.Fatalf("NodeCount() = %d, want 1", g.NodeCount())
	}
	if !reflect.DeepEqual(g.Edges(), []Edge{{"A", "A"}}) {
		t.Errorf("Edges() = %v, want [A->A]", g.Edges())
	}
	a, _ := g.Node("A")
	if a.Class != ClassCyclic {
		t.Errorf("A class = %v, want cyclic", a.Class)
	}
}

func TestBuild_NoDependencyBeatsCyclic(t *testing.T) {
	// B has no recorded dependencies but is listed in a cycle; C is only a
	// dependency target and also listed.
	m := NewMapping().Set("A", "B", "C").Set("B")
	g := Build(m, [][]string{{"A", "B", "C"}}, testConfig())

	for _, id := range []string{"B", "C"} {
		n, _ := g.Node(id)
		if n.Class != ClassNoDependency {
			t.Errorf("%s class = %v, want no-dependency", id, n.Class)
		}
	}
	a, _ := g.Node("A")
	if a.Class != ClassCyclic {
		t.Errorf("A class = %v, want cyclic", a.Class)
	}
}

func TestBuild_CallbackAttrsUnderHighlight(t *testing.T) {
	m := NewMapping().Set("A")
	cfg := testConfig()
	cfg.NodeAttributes = func(id string) (style.NodeAttributes, bool) {
		return style.NodeAttributes{Attrs: style.Attributes{"shape": "ellipse", "color": "blue"}}, true
	}

	g := Build(m, nil, cfg)
	a, _ := g.Node("A")

	if a.Attrs["shape"] != "ellipse" {
		t.Errorf("shape = %q, want ellipse", a.Attrs["shape"])
	}
	if a.Attrs["color"] != cfg.NoDependencyColor {
		t.Errorf("color = %q, want highlight %q", a.Attrs["color"], cfg.NoDependencyColor)
	}
}

func TestBuild_EmptyMapping(t *testing.T) {
	g := Build(NewMapping(), [][]string{{"ghost"}}, testConfig())
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("got %d nodes, %d edges; want empty graph", g.NodeCount(), g.EdgeCount())
	}
	if g.Defaults.Graph["rankdir"] != "LR" {
		t.Errorf("defaults not resolved: %v", g.Defaults.Graph)
	}
}

func TestBuild_NilMapping(t *testing.T) {
	g := Build(nil, nil, testConfig())
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0", g.NodeCount())
	}
}

func TestBuild_Properties(t *testing.T) {
	m := NewMapping().
		Set("app", "router", "db", "log").
		Set("router", "handlers", "log").
		Set("handlers", "db", "router", "handlers").
		Set("db", "driver").
		Set("log").
		Set("cli", "app", "ext/flags")
	cycles := [][]string{{"router", "handlers"}, {"handlers"}}
	cfg := testConfig()
	cfg.NodeAttributes = style.GroupRules([]style.GroupRule{
		{Name: "web", Patterns: []string{"router", "handlers"}},
		{Name: "data", Patterns: []string{"db", "driver"}},
	})

	g := Build(m, cycles, cfg)

	// Exactly one node per identifier.
	seen := map[string]bool{}
	for _, id := range m.Keys() {
		seen[id] = true
		deps, _ := m.Deps(id)
		for _, d := range deps {
			seen[d] = true
		}
	}
	if g.NodeCount() != len(seen) {
		t.Errorf("NodeCount() = %d, want %d", g.NodeCount(), len(seen))
	}
	dup := map[string]bool{}
	for _, n := range g.Nodes() {
		if dup[n.ID] {
			t.Errorf("duplicate node %s", n.ID)
		}
		dup[n.ID] = true
		if !seen[n.ID] {
			t.Errorf("unexpected node %s", n.ID)
		}
	}

	// Edge count equals the sum of dependency list lengths.
	if g.EdgeCount() != m.EdgeCount() {
		t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), m.EdgeCount())
	}

	// Placement: inside a subgraph iff both endpoints share a group.
	for _, sg := range g.Subgraphs() {
		for _, e := range sg.Edges {
			from, _ := g.Node(e.From)
			to, _ := g.Node(e.To)
			if from.Group != sg.Name || to.Group != sg.Name {
				t.Errorf("edge %v in %s crosses groups", e, sg.Name)
			}
		}
	}
	for _, e := range g.TopLevelEdges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		if from.Group != "" && from.Group == to.Group {
			t.Errorf("edge %v should be inside %s", e, from.Group)
		}
	}

	// Styling.
	cyclic := NewCyclicSet(cycles)
	for _, n := range g.Nodes() {
		deps, _ := m.Deps(n.ID)
		switch {
		case len(deps) == 0:
			if n.Class != ClassNoDependency {
				t.Errorf("%s class = %v, want no-dependency", n.ID, n.Class)
			}
		case cyclic.Contains(n.ID):
			if n.Class != ClassCyclic {
				t.Errorf("%s class = %v, want cyclic", n.ID, n.Class)
			}
		default:
			if n.Class != ClassDefault {
				t.Errorf("%s class = %v, want default", n.ID, n.Class)
			}
		}
	}

	// Idempotence.
	again := Build(m, cycles, cfg)
	if !reflect.DeepEqual(snapshot(g), snapshot(again)) {
		t.Error("two builds from the same input differ")
	}
}

type nodeShot struct {
	ID, Group string
	Class     Class
	Attrs     style.Attributes
}

type graphShot struct {
	Nodes     []nodeShot
	TopEdges  []Edge
	Subgraphs map[string][]Edge
	Defaults  style.Sets
}

func snapshot(g *Graph) graphShot {
	s := graphShot{TopEdges: g.TopLevelEdges(), Subgraphs: map[string][]Edge{}, Defaults: g.Defaults}
	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, nodeShot{n.ID, n.Group, n.Class, n.Attrs})
	}
	for _, sg := range g.Subgraphs() {
		s.Subgraphs[sg.Name] = sg.Edges
	}
	return s
}

func TestClassify(t *testing.T) {
	m := NewMapping().Set("A", "B").Set("B")
	cyclic := NewCyclicSet([][]string{{"A"}, {"B"}, {"Z"}})

	tests := []struct {
		id   string
		want Class
	}{
		{"A", ClassCyclic},
		{"B", ClassNoDependency},
		{"Z", ClassNoDependency},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := Classify(m, cyclic, tt.id); got != tt.want {
				t.Errorf("Classify(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestClassString(t *testing.T) {
	tests := map[Class]string{
		ClassDefault:      "default",
		ClassNoDependency: "no-dependency",
		ClassCyclic:       "cyclic",
	}
	for c, want := range tests {
		if c.String() != want {
			t.Errorf("%d.String() = %q, want %q", c, c.String(), want)
		}
	}
}

func TestNewCyclicSet(t *testing.T) {
	s := NewCyclicSet([][]string{{"a", "b"}, {"b", "c"}, {}})
	if len(s) != 3 {
		t.Errorf("len = %d, want 3", len(s))
	}
	for _, id := range []string{"a", "b", "c"} {
		if !s.Contains(id) {
			t.Errorf("missing %s", id)
		}
	}
	if s.Contains("d") {
		t.Error("unexpected member d")
	}
}
