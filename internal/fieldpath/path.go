// Package fieldpath provides a typed address into a record value and the
// guarded get/set helpers the form engine is built on. Reads on missing or
// malformed paths return defaults, writes auto-create missing intermediate
// containers; nothing here ever panics on drifted data.
package fieldpath

import (
	"strconv"
	"strings"
)

// Segment is one step of a path: either a map key or an array index.
type Segment struct {
	key   string
	index int
	isIdx bool
}

// Key returns a key segment.
func Key(k string) Segment {
	return Segment{key: k}
}

// Index returns an index segment.
func Index(i int) Segment {
	return Segment{index: i, isIdx: true}
}

// IsIndex reports whether the segment addresses an array entry.
func (s Segment) IsIndex() bool { return s.isIdx }

// KeyName returns the map key for a key segment, or "" for an index.
func (s Segment) KeyName() string { return s.key }

// Idx returns the array index for an index segment, or 0 for a key.
func (s Segment) Idx() int { return s.index }

// Path addresses one node in a record value, e.g. services[2].price.
type Path []Segment

// Child returns a new path extended by a key segment.
func (p Path) Child(k string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Key(k))
}

// At returns a new path extended by an index segment.
func (p Path) At(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Index(i))
}

// String renders the path in dot/bracket form: "time.endTime", "services[2].price".
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if s.isIdx {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.key)
	}
	return b.String()
}

// Parse converts a dot/bracket path string back into a Path. Malformed
// bracket contents are kept as key segments rather than rejected, so a
// Parse/String round trip never loses addressability.
func Parse(s string) Path {
	var p Path
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			continue
		}
		for {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				if part != "" {
					p = append(p, Key(part))
				}
				break
			}
			if open > 0 {
				p = append(p, Key(part[:open]))
			}
			rest := part[open+1:]
			closeIdx := strings.IndexByte(rest, ']')
			if closeIdx < 0 {
				// Unterminated bracket; treat the remainder as a key.
				p = append(p, Key(rest))
				break
			}
			if n, err := strconv.Atoi(rest[:closeIdx]); err == nil {
				p = append(p, Index(n))
			} else {
				p = append(p, Key(rest[:closeIdx]))
			}
			part = rest[closeIdx+1:]
			if part == "" {
				break
			}
		}
	}
	return p
}

// Get resolves the path against a record value. The second return reports
// whether the full path existed; on any miss or container mismatch the
// value is nil and ok is false.
func Get(doc map[string]any, p Path) (any, bool) {
	var cur any = doc
	for _, seg := range p {
		if seg.isIdx {
			arr, ok := cur.([]any)
			if !ok || seg.index < 0 || seg.index >= len(arr) {
				return nil, false
			}
			cur = arr[seg.index]
			continue
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg.key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetMap resolves the path to a map, returning an empty map on miss or
// mismatch.
func GetMap(doc map[string]any, p Path) map[string]any {
	if v, ok := Get(doc, p); ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return map[string]any{}
}

// GetSlice resolves the path to a slice, returning an empty slice on miss
// or mismatch.
func GetSlice(doc map[string]any, p Path) []any {
	if v, ok := Get(doc, p); ok {
		if arr, ok := v.([]any); ok {
			return arr
		}
	}
	return nil
}

// GetString resolves the path to a string, coercing nothing: non-string
// values come back as "".
func GetString(doc map[string]any, p Path) string {
	if v, ok := Get(doc, p); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Set writes a value at the path, creating missing intermediate maps and
// growing intermediate arrays as needed. An intermediate of the wrong
// container type is replaced rather than errored, mirroring the engine's
// self-healing reads. Setting through an index at the root level is not
// addressable (the root is always a map) and is ignored.
func Set(doc map[string]any, p Path, v any) {
	if len(p) == 0 || p[0].isIdx {
		return
	}
	setInMap(doc, p, v)
}

func setInMap(m map[string]any, p Path, v any) {
	seg := p[0]
	if len(p) == 1 {
		m[seg.key] = v
		return
	}
	next := p[1]
	if next.isIdx {
		arr, _ := m[seg.key].([]any)
		m[seg.key] = setInSlice(arr, p[1:], v)
		return
	}
	child, ok := m[seg.key].(map[string]any)
	if !ok {
		child = map[string]any{}
		m[seg.key] = child
	}
	setInMap(child, p[1:], v)
}

func setInSlice(arr []any, p Path, v any) []any {
	seg := p[0]
	if seg.index < 0 {
		return arr
	}
	for len(arr) <= seg.index {
		arr = append(arr, map[string]any{})
	}
	if len(p) == 1 {
		arr[seg.index] = v
		return arr
	}
	next := p[1]
	if next.isIdx {
		inner, _ := arr[seg.index].([]any)
		arr[seg.index] = setInSlice(inner, p[1:], v)
		return arr
	}
	child, ok := arr[seg.index].(map[string]any)
	if !ok {
		child = map[string]any{}
		arr[seg.index] = child
	}
	setInMap(child, p[1:], v)
	return arr
}

// Append pushes a value onto the array at the path, creating the array if
// the current value is missing or not an array.
func Append(doc map[string]any, p Path, v any) {
	arr := GetSlice(doc, p)
	Set(doc, p, append(arr, v))
}

// RemoveAt splices the entry at index i out of the array at the path.
// Out-of-range indexes are ignored.
func RemoveAt(doc map[string]any, p Path, i int) {
	arr := GetSlice(doc, p)
	if i < 0 || i >= len(arr) {
		return
	}
	out := make([]any, 0, len(arr)-1)
	out = append(out, arr[:i]...)
	out = append(out, arr[i+1:]...)
	Set(doc, p, out)
}
