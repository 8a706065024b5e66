package reflink

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Charset selects the punctuation removed from a heading to form its anchor.
type Charset string

const (
	// CharsetFull strips . ( ) [ ] , < >
	CharsetFull Charset = "full"
	// CharsetNoBrackets strips . ( ) , < > and keeps square brackets.
	CharsetNoBrackets Charset = "no-brackets"
)

// Options configures link derivation.
type Options struct {
	Charset Charset
}

// Link is a resolvable target derived from a code-span heading.
type Link struct {
	Key     string
	Anchor  string
	Display string
}

var (
	argumentList      = regexp.MustCompile(`\(.+\)`)
	afterClosingParen = regexp.MustCompile(`\).*`)
)

// keyAbbreviations are applied to the start of a lowercased display string.
var keyAbbreviations = []struct{ prefix, short string }{
	{"database", "db"},
	{"statement", "stmt"},
}

// DeriveLink computes the key, anchor and display string for a heading's code span text.
func DeriveLink(heading string, opts Options) Link {
	display := argumentList.ReplaceAllLiteralString(heading, "()")
	display = afterClosingParen.ReplaceAllLiteralString(display, ")")

	return Link{
		Key:     referenceKey(display),
		Anchor:  anchorFor(heading, opts.Charset),
		Display: display,
	}
}

func referenceKey(display string) string {
	key := lower(display)
	for _, abbr := range keyAbbreviations {
		if strings.HasPrefix(key, abbr.prefix) {
			key = abbr.short + key[len(abbr.prefix):]
		}
	}
	return strings.ReplaceAll(key, "()", "")
}

func anchorFor(heading string, charset Charset) string {
	strip := ".()[],<>"
	if charset == CharsetNoBrackets {
		strip = ".(),<>"
	}
	slug := strings.Map(func(r rune) rune {
		if strings.ContainsRune(strip, r) {
			return -1
		}
		return r
	}, heading)
	return lower(strings.ReplaceAll(slug, " ", "-"))
}

// lower applies full Unicode lowercasing; a Caser is stateful, so one is made per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
