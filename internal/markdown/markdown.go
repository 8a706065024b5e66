package markdown

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// ExtractLinks parses a Markdown body and extracts link-like constructs.
//
// This is an analysis API; it does not attempt to re-render Markdown.
func ExtractLinks(body []byte) ([]Link, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			// Goldmark resolves reference-style links to a Link node with a Destination.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	// Reference definitions are stored in the parse context (not represented as AST nodes).
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	return links, nil
}

// FragmentLinks returns the in-document targets of inline links, without the leading '#'.
// Anchors written as raw HTML (<a href="#x">) follow the Markdown links.
func FragmentLinks(body []byte) ([]string, error) {
	links, err := ExtractLinks(body)
	if err != nil {
		return nil, err
	}
	fragments := make([]string, 0, len(links))
	for _, l := range links {
		if l.Kind != LinkKindInline {
			continue
		}
		if frag, ok := strings.CutPrefix(l.Destination, "#"); ok && frag != "" {
			fragments = append(fragments, frag)
		}
	}

	raw, err := RawHTML(body)
	if err != nil {
		return nil, err
	}
	htmlFrags, err := htmlFragments(raw)
	if err != nil {
		return nil, err
	}
	return append(fragments, htmlFrags...), nil
}

// HeadingLines returns the full source line of every heading goldmark renders,
// including the '#' markers of ATX headings. Setext headings contribute their
// text lines. Line endings other than '\n' are kept.
func HeadingLines(body []byte) ([]string, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	lines := make([]string, 0)
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		segs := h.Lines()
		for i := 0; i < segs.Len(); i++ {
			lines = append(lines, sourceLine(body, segs.At(i).Start))
		}
		return gmast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// sourceLine returns the line of source containing offset, without its '\n'.
func sourceLine(source []byte, offset int) string {
	start := bytes.LastIndexByte(source[:offset], '\n') + 1
	end := len(source)
	if i := bytes.IndexByte(source[offset:], '\n'); i >= 0 {
		end = offset + i
	}
	return string(source[start:end])
}
