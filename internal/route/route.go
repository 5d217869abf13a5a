// Package route parses location fragments such as "#/basic/network?tab=wifi"
// into immutable Route values and checks them against the section whitelist.
// Parsing never fails; malformed input is normalized.
package route

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/msto63/leitstand/foundation/utils/mapx"
)

// Root is the normalized empty path.
const Root = "/"

// Route is an immutable parsed location. Accessors return copies.
type Route struct {
	path     string
	segments []string
	params   map[string]string
}

// Parse builds a Route from a raw fragment.
func Parse(raw string) Route {
	path := Normalize(raw)
	return Route{
		path:     path,
		segments: ToSegments(path),
		params:   ParseParams(raw),
	}
}

// Path returns the normalized absolute path.
func (r Route) Path() string {
	if r.path == "" {
		return Root
	}
	return r.path
}

// Segments returns the non-empty path components.
func (r Route) Segments() []string {
	out := make([]string, len(r.segments))
	copy(out, r.segments)
	return out
}

// Segment returns the i-th path component or "".
func (r Route) Segment(i int) string {
	if i < 0 || i >= len(r.segments) {
		return ""
	}
	return r.segments[i]
}

// Params returns the decoded query parameters.
func (r Route) Params() map[string]string {
	return mapx.Clone(r.params)
}

// Param returns the value of key and whether it was present.
func (r Route) Param(key string) (string, bool) {
	v, ok := r.params[key]
	return v, ok
}

// Equal reports structural equality.
func (r Route) Equal(other Route) bool {
	if r.Path() != other.Path() || len(r.segments) != len(other.segments) || len(r.params) != len(other.params) {
		return false
	}
	for i := range r.segments {
		if r.segments[i] != other.segments[i] {
			return false
		}
	}
	for k, v := range r.params {
		if ov, ok := other.params[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Fragment renders the route back into a fragment with sorted, escaped params.
func (r Route) Fragment() string {
	if len(r.params) == 0 {
		return r.Path()
	}
	keys := mapx.SortedKeys(r.params)

	var b strings.Builder
	b.WriteString(r.Path())
	for i, k := range keys {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(escape(k))
		if v := r.params[k]; v != "" {
			b.WriteByte('=')
			b.WriteString(escape(v))
		}
	}
	return b.String()
}

// String implements fmt.Stringer.
func (r Route) String() string {
	return r.Fragment()
}

// MarshalJSON encodes the route for the resolve command.
func (r Route) MarshalJSON() ([]byte, error) {
	segments := r.Segments()
	params := r.Params()
	return json.Marshal(struct {
		Path     string            `json:"path"`
		Segments []string          `json:"segments"`
		Params   map[string]string `json:"params"`
	}{r.Path(), segments, params})
}

// Normalize turns a raw fragment into an absolute path: leading whitespace,
// "#" and "!" are dropped, everything from the first "?" is cut, repeated slashes are
// collapsed and one trailing slash is removed. Empty input yields "/".
func Normalize(raw string) string {
	s := strings.TrimLeft(raw, " \t\r\n")
	s = strings.TrimLeft(s, "#!")
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}

	var b strings.Builder
	b.Grow(len(s) + 1)
	b.WriteByte('/')
	prevSlash := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}

	out := b.String()
	if len(out) > 1 && strings.HasSuffix(out, "/") {
		out = out[:len(out)-1]
	}
	return out
}

// ParseParams decodes the query part after the first "?" of raw. Keys and
// values are percent-decoded; input that fails to decode is kept verbatim.
// A bare key maps to "". Empty parts and empty keys are skipped.
func ParseParams(raw string) map[string]string {
	params := make(map[string]string)
	i := strings.IndexByte(raw, '?')
	if i < 0 {
		return params
	}
	for _, part := range strings.Split(raw[i+1:], "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		key = decode(key)
		if key == "" {
			continue
		}
		params[key] = decode(value)
	}
	return params
}

// escape is the inverse of decode; spaces become %20 because decode keeps "+".
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func decode(s string) string {
	if d, err := url.PathUnescape(s); err == nil {
		return d
	}
	return s
}

// ToSegments splits a path into its non-empty components.
func ToSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// Query returns the suffix of raw starting at the first "?", or "".
func Query(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[i:]
	}
	return ""
}
