// Package reflink expands shorthand cross references in a markdown document.
//
// Headings written as a code span (for example "### `Database.run(sql)`")
// define link targets. Each target gets a lookup key ("db.run"), an anchor
// slug ("databaserunsql") and a display string ("Database.run()"). A
// shorthand reference "[](#db.run)" is rewritten to
// "[`Database.run()`](#databaserunsql)"; a non-empty label replaces the
// display string.
//
// Matching is done with regular expressions over the raw text, not with a
// markdown parser, so references inside code blocks are rewritten as well.
package reflink
