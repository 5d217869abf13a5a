package route

import "strings"

// Whitelist is the fixed set of top-level sections a route may live under.
type Whitelist []string

// DefaultWhitelist lists the dashboard sections.
var DefaultWhitelist = Whitelist{
	"/home",
	"/status",
	"/basic",
	"/advanced",
	"/management",
	"/application",
}

// Allows reports whether path equals an entry or lies below one.
// The root and the empty path are never allowed.
func (w Whitelist) Allows(path string) bool {
	if path == "" || path == Root {
		return false
	}
	for _, prefix := range w {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// IsAllowed is the function form of Whitelist.Allows.
func IsAllowed(path string, w Whitelist) bool {
	return w.Allows(path)
}

// NewWhitelist normalizes the given prefixes, dropping the root.
func NewWhitelist(prefixes ...string) Whitelist {
	out := make(Whitelist, 0, len(prefixes))
	for _, p := range prefixes {
		if n := Normalize(p); n != Root {
			out = append(out, n)
		}
	}
	return out
}
