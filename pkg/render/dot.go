package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/modgraph/pkg/depgraph"
	"github.com/matzehuels/modgraph/pkg/style"
)

// ToDOT serialises a graph description to Graphviz DOT.
//
// Default attribute sets come first, followed by top-level nodes, one
// subgraph block per group and finally the top-level edges. Attribute keys
// are written in sorted order so equal graphs produce identical text.
func ToDOT(g *depgraph.Graph) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quote(g.Name))

	writeDefaults(&buf, "graph", g.Defaults.Graph)
	writeDefaults(&buf, "node", g.Defaults.Node)
	writeDefaults(&buf, "edge", g.Defaults.Edge)

	for _, n := range g.TopLevelNodes() {
		writeNode(&buf, "  ", n)
	}

	for _, sg := range g.Subgraphs() {
		fmt.Fprintf(&buf, "  subgraph %s {\n", quote(sg.Name))
		for _, n := range sg.Nodes {
			writeNode(&buf, "    ", n)
		}
		for _, e := range sg.Edges {
			writeEdge(&buf, "    ", e)
		}
		buf.WriteString("  }\n")
	}

	for _, e := range g.TopLevelEdges() {
		writeEdge(&buf, "  ", e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeDefaults(buf *bytes.Buffer, kind string, attrs style.Attributes) {
	if len(attrs) == 0 {
		return
	}
	fmt.Fprintf(buf, "  %s [%s];\n", kind, fmtAttrs(attrs))
}

func writeNode(buf *bytes.Buffer, indent string, n *depgraph.Node) {
	if len(n.Attrs) == 0 {
		fmt.Fprintf(buf, "%s%s;\n", indent, quote(n.ID))
		return
	}
	fmt.Fprintf(buf, "%s%s [%s];\n", indent, quote(n.ID), fmtAttrs(n.Attrs))
}

func writeEdge(buf *bytes.Buffer, indent string, e depgraph.Edge) {
	fmt.Fprintf(buf, "%s%s -> %s;\n", indent, quote(e.From), quote(e.To))
}

func fmtAttrs(attrs style.Attributes) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range attrs.Keys() {
		parts = append(parts, k+"="+quote(attrs[k]))
	}
	return strings.Join(parts, ", ")
}

var quoteEscaper = strings.NewReplacer(`"`, `\"`)

// quote writes s as a DOT double-quoted string. DOT only escapes the quote
// character; everything else, backslashes and non-ASCII included, is kept
// as is so Graphviz sees the original text.
func quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}
