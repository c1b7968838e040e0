// Package interactive wraps a rendered SVG graph in a standalone HTML page.
//
// The page inlines the SVG and a small script that adds panning (drag),
// zooming (wheel) and click-to-highlight: clicking a node marks it and every
// edge that starts or ends at it, clicking the background clears the
// selection. Nodes and edges are recognised by the "node" and "edge" classes
// and <title> elements Graphviz emits.
package interactive

import (
	"bytes"
	_ "embed"
	"html/template"
	"regexp"

	"github.com/matzehuels/modgraph/pkg/errors"
)

// DefaultTitle is used when a Generator has no title.
const DefaultTitle = "Dependency graph"

//go:embed page.html.tmpl
var pageSource string

var page = template.Must(template.New("page").Parse(pageSource))

var (
	prologRe  = regexp.MustCompile(`(?s)^\s*<\?xml.*?\?>`)
	doctypeRe = regexp.MustCompile(`(?s)^\s*<!DOCTYPE[^>]*>`)
	commentRe = regexp.MustCompile(`(?s)^\s*<!--.*?-->`)
	svgOpenRe = regexp.MustCompile(`<svg[\s>]`)
)

// Generator produces interactive pages. The zero value is ready to use.
type Generator struct {
	Title      string
	Background string // page background; empty uses the graph background
}

type pageData struct {
	Title      string
	Background string
	SVG        template.HTML
}

// Generate returns an HTML document embedding svg.
func (g *Generator) Generate(svg []byte) ([]byte, error) {
	body, err := inlineSVG(svg)
	if err != nil {
		return nil, err
	}

	title := g.Title
	if title == "" {
		title = DefaultTitle
	}

	var buf bytes.Buffer
	err = page.Execute(&buf, pageData{
		Title:      title,
		Background: g.Background,
		SVG:        template.HTML(body),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "execute page template")
	}
	return buf.Bytes(), nil
}

// Generate embeds svg using a zero Generator.
func Generate(svg []byte) ([]byte, error) {
	return (&Generator{}).Generate(svg)
}

// inlineSVG strips the XML prolog, doctype and leading comments Graphviz
// writes before the root element, which are not valid inside HTML.
func inlineSVG(svg []byte) ([]byte, error) {
	if !svgOpenRe.Match(svg) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input is not an SVG document")
	}
	for {
		n := len(svg)
		svg = prologRe.ReplaceAll(svg, nil)
		svg = doctypeRe.ReplaceAll(svg, nil)
		svg = commentRe.ReplaceAll(svg, nil)
		if len(svg) == n {
			break
		}
	}
	return bytes.TrimSpace(svg), nil
}
