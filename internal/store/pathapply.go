package store

import (
	"fmt"
	"strconv"
	"strings"
)

// pathSegment is one step of a concrete document path: a key plus an
// optional array index.
type pathSegment struct {
	key   string
	index int // -1 when the segment is not indexed
}

// parsePath splits a concrete path such as
// "tokens.sourceDisplay[2].phonetic" into segments.
func parsePath(path string) ([]pathSegment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty field path")
	}
	var segments []pathSegment
	for _, part := range strings.Split(path, ".") {
		key := part
		index := -1
		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, fmt.Errorf("field path %q: malformed index in %q", path, part)
			}
			n, err := strconv.Atoi(part[open+1 : len(part)-1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("field path %q: bad index in %q", path, part)
			}
			key = part[:open]
			index = n
		}
		if key == "" {
			return nil, fmt.Errorf("field path %q: empty segment", path)
		}
		segments = append(segments, pathSegment{key: key, index: index})
	}
	return segments, nil
}

// tokenArrays are document arrays whose elements carry a positional index
// field. Elements materialized during a path apply are stamped accordingly.
var tokenArrays = map[string]bool{
	"sourceDisplay": true,
	"targetDisplay": true,
	"sourceSense":   true,
	"targetSense":   true,
}

// applyPath sets one value inside a decoded JSON document, creating
// intermediate objects and growing arrays as needed. It never removes or
// truncates anything.
func applyPath(doc map[string]any, path string, value any) error {
	segments, err := parsePath(path)
	if err != nil {
		return err
	}

	current := doc
	for i, seg := range segments {
		last := i == len(segments)-1

		if seg.index < 0 {
			if last {
				current[seg.key] = value
				return nil
			}
			next, ok := current[seg.key].(map[string]any)
			if !ok {
				if existing, present := current[seg.key]; present && existing != nil {
					return fmt.Errorf("field path %q: %s is not an object", path, seg.key)
				}
				next = make(map[string]any)
				current[seg.key] = next
			}
			current = next
			continue
		}

		arr, ok := current[seg.key].([]any)
		if !ok {
			if existing, present := current[seg.key]; present && existing != nil {
				return fmt.Errorf("field path %q: %s is not an array", path, seg.key)
			}
			arr = []any{}
		}
		for len(arr) <= seg.index {
			elem := make(map[string]any)
			if tokenArrays[seg.key] {
				elem["index"] = len(arr)
			}
			arr = append(arr, elem)
		}
		current[seg.key] = arr

		if last {
			arr[seg.index] = value
			return nil
		}
		next, ok := arr[seg.index].(map[string]any)
		if !ok {
			if arr[seg.index] != nil {
				return fmt.Errorf("field path %q: %s[%d] is not an object", path, seg.key, seg.index)
			}
			next = make(map[string]any)
			if tokenArrays[seg.key] {
				next["index"] = seg.index
			}
			arr[seg.index] = next
		}
		current = next
	}
	return nil
}
