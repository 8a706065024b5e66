package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RawHTML returns the HTML blocks and inline HTML of a Markdown body, joined by newlines.
// Markdown links are not rendered; only the HTML the author wrote verbatim is kept.
func RawHTML(body []byte) (string, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var buf bytes.Buffer
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.HTMLBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(body))
			}
			if node.HasClosure() {
				buf.Write(node.ClosureLine.Value(body))
			}
			buf.WriteByte('\n')
		case *gmast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(body))
			}
			buf.WriteByte('\n')
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// htmlFragments returns the '#' targets of anchor elements in an HTML snippet.
func htmlFragments(snippet string) ([]string, error) {
	if strings.TrimSpace(snippet) == "" {
		return nil, nil
	}
	ctxNode := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(snippet), ctxNode)
	if err != nil {
		return nil, err
	}

	var fragments []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if frag, ok := strings.CutPrefix(attr.Val, "#"); ok && frag != "" {
					fragments = append(fragments, frag)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return fragments, nil
}
