package reflink

import (
	"fmt"
	"regexp"
	"strings"
)

var referencePattern = regexp.MustCompile(`\[(.*?)\]\(#(.+?)\)`)

// Reference describes one rewritten shorthand reference.
type Reference struct {
	Key     string
	Display string
	Anchor  string
	Line    int
}

// UnresolvedKeyError reports a shorthand reference whose key has no heading.
type UnresolvedKeyError struct {
	Key  string
	Line int
}

func (e *UnresolvedKeyError) Error() string {
	return fmt.Sprintf("unresolved reference key %q on line %d", e.Key, e.Line)
}

// Resolve rewrites every shorthand reference in content using table.
// The first unknown key aborts the rewrite and no text is returned.
func Resolve(content string, table *Table) (string, []Reference, error) {
	matches := referencePattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil, nil
	}

	var b strings.Builder
	b.Grow(len(content))
	refs := make([]Reference, 0, len(matches))

	last, line := 0, 1
	for _, m := range matches {
		line += strings.Count(content[last:m[0]], "\n")
		label, key := content[m[2]:m[3]], content[m[4]:m[5]]

		link, ok := table.Lookup(key)
		if !ok {
			return "", nil, &UnresolvedKeyError{Key: key, Line: line}
		}
		display := link.Display
		if label != "" {
			display = label
		}

		b.WriteString(content[last:m[0]])
		fmt.Fprintf(&b, "[`%s`](#%s)", display, link.Anchor)

		refs = append(refs, Reference{Key: key, Display: display, Anchor: link.Anchor, Line: line})
		line += strings.Count(content[m[0]:m[1]], "\n")
		last = m[1]
	}
	b.WriteString(content[last:])

	return b.String(), refs, nil
}
