package registry

import (
	"strconv"
	"strings"
)

const (
	tokenPlaceholder = "[i]"
	sensePlaceholder = "[j]"
)

// Concrete instantiates a template path for concrete indices. Indices that a
// path does not use are ignored, so top-level fields pass through unchanged.
func Concrete(f Field, tokenIndex, senseIndex int) string {
	path := string(f)
	if strings.Contains(path, tokenPlaceholder) {
		path = strings.Replace(path, tokenPlaceholder, "["+strconv.Itoa(tokenIndex)+"]", 1)
	}
	if strings.Contains(path, sensePlaceholder) {
		path = strings.Replace(path, sensePlaceholder, "["+strconv.Itoa(senseIndex)+"]", 1)
	}
	return path
}

// Placeholders returns how many repetition placeholders a template carries:
// 0 for scalars, 1 for token-array paths, 2 for sense-array paths.
func Placeholders(f Field) int {
	n := 0
	if strings.Contains(string(f), tokenPlaceholder) {
		n++
	}
	if strings.Contains(string(f), sensePlaceholder) {
		n++
	}
	return n
}

// Abstract converts a concrete document path back to its field template by
// restoring the repetition placeholders, and reports whether the result names
// a registered field.
func Abstract(path string) (Field, bool) {
	var sb strings.Builder
	inIndex := false
	first := true
	for _, r := range path {
		switch {
		case r == '[':
			inIndex = true
			if first {
				sb.WriteString(tokenPlaceholder)
				first = false
			} else {
				sb.WriteString(sensePlaceholder)
			}
		case r == ']':
			inIndex = false
		case inIndex:
			// index digits are dropped
		default:
			sb.WriteRune(r)
		}
	}
	f := Field(sb.String())
	_, ok := Lookup(f)
	return f, ok
}

// Leaf returns the final path segment of a field template.
func Leaf(f Field) string {
	path := string(f)
	if pos := strings.LastIndex(path, "."); pos >= 0 {
		return path[pos+1:]
	}
	return path
}
