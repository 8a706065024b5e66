package readme

import (
	"strings"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/markdown"
	"git.home.luguber.info/inful/readmegen/internal/reflink"
)

// verify cross-checks the rendered output with a markdown parser. Findings are
// warnings: fragments that point at no known anchor, and code-span headings
// that the parser does not treat as headings (for example inside a fence).
func (g *Generator) verify(res *Result, table *reflink.Table) error {
	fragments, err := markdown.FragmentLinks(res.Output)
	if err != nil {
		return ferrors.InternalError("parse rendered output").WithCause(err).Build()
	}
	anchors := table.Anchors()
	for _, frag := range fragments {
		if _, ok := anchors[frag]; ok {
			continue
		}
		res.DanglingAnchors = append(res.DanglingAnchors, frag)
		g.logger.Warn("Link target has no matching heading", logfields.Anchor(frag))
	}

	lines, err := markdown.HeadingLines(res.Output)
	if err != nil {
		return ferrors.InternalError("parse rendered headings").WithCause(err).Build()
	}
	rendered := reflink.Headings(strings.Join(lines, "\n"))
	remaining := make(map[string]int, len(rendered))
	for _, h := range rendered {
		remaining[h]++
	}
	for _, h := range reflink.Headings(string(res.Output)) {
		if remaining[h] > 0 {
			remaining[h]--
			continue
		}
		res.UnrenderedHeadings = append(res.UnrenderedHeadings, h)
		g.logger.Warn("Code heading is not rendered as a heading", logfields.Heading(h))
	}
	return nil
}
