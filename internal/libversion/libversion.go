// Package libversion derives the bundled SQLite version from the build file
// and substitutes it into documentation.
package libversion

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Placeholder is the token replaced with the derived version.
const Placeholder = "%%sqlite_version%%"

// ErrVersionNotFound is returned when the build file has no amalgamation archive name.
var ErrVersionNotFound = errors.New("amalgamation-DDDDD.zip not found")

var amalgamationPattern = regexp.MustCompile(`amalgamation-(\d{5})\.zip`)

// FromBuildFile extracts the version encoded in the first amalgamation-DDDDD.zip
// token: the digits split as 1+2+2 and each part loses its leading zeros,
// so 30845 becomes 3.8.45.
func FromBuildFile(data []byte) (string, error) {
	m := amalgamationPattern.FindSubmatch(data)
	if m == nil {
		return "", ErrVersionNotFound
	}
	digits := string(m[1])

	parts := []string{digits[0:1], digits[1:3], digits[3:5]}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", fmt.Errorf("parse version part %q: %w", p, err)
		}
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "."), nil
}

// LoadFile reads the build file at path and derives the version from it.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	v, err := FromBuildFile(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Substitute replaces every placeholder in content with version and reports how many were replaced.
func Substitute(content, placeholder, version string) (string, int) {
	if placeholder == "" {
		return content, 0
	}
	n := strings.Count(content, placeholder)
	if n == 0 {
		return content, 0
	}
	return strings.ReplaceAll(content, placeholder, version), n
}
