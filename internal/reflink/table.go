package reflink

import (
	"regexp"
	"sort"
)

// headingSpace matches the Unicode whitespace set, not only ASCII \s.
const headingSpace = `[\s\x{0b}\x{1c}-\x{1f}\x{85}\p{Z}]`

var headingPattern = regexp.MustCompile("(?m)^#+" + headingSpace + "+`(.+?)`$")

// Collision records a heading whose key replaced an earlier heading's link.
type Collision struct {
	Key      string
	Previous Link
	Current  Link
}

// Table maps reference keys to links. It is built once and read-only afterwards.
type Table struct {
	links      map[string]Link
	collisions []Collision
}

// Headings returns the code span text of every code-span heading, in document order.
func Headings(content string) []string {
	matches := headingPattern.FindAllStringSubmatch(content, -1)
	headings := make([]string, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, m[1])
	}
	return headings
}

// BuildTable derives a link for every code-span heading in content.
// When two headings share a key the later one wins and the overwrite is recorded.
func BuildTable(content string, opts Options) *Table {
	t := &Table{links: make(map[string]Link)}
	for _, heading := range Headings(content) {
		t.add(DeriveLink(heading, opts))
	}
	return t
}

func (t *Table) add(link Link) {
	if prev, ok := t.links[link.Key]; ok {
		t.collisions = append(t.collisions, Collision{Key: link.Key, Previous: prev, Current: link})
	}
	t.links[link.Key] = link
}

// Lookup returns the link registered under key.
func (t *Table) Lookup(key string) (Link, bool) {
	link, ok := t.links[key]
	return link, ok
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	return len(t.links)
}

// Keys returns all keys in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.links))
	for k := range t.links {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Anchors returns the set of anchors targeted by the table.
func (t *Table) Anchors() map[string]struct{} {
	anchors := make(map[string]struct{}, len(t.links))
	for _, l := range t.links {
		anchors[l.Anchor] = struct{}{}
	}
	return anchors
}

// Collisions returns the key collisions seen while building, in document order.
func (t *Table) Collisions() []Collision {
	return t.collisions
}
