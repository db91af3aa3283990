// Package prefixlist implements the ordered prefix-set used for both the
// pin list (paths never evicted from worker memory) and the whitelist
// (paths eligible to be cached), per spec §4.1. Both answer the same
// question — "is path P covered by list L?" — against a small,
// rarely-changed set of path prefixes, so a linear scan over a slice is
// the right data structure; no index is worth the complexity at this
// scale.
package prefixlist

import "strings"

// List is an ordered set of path prefixes.
type List struct {
	prefixes []string
}

// New builds a List from already-split prefixes (see ParseConfigValue),
// which are matched against absolute namespace paths; empty entries are
// dropped.
func New(prefixes []string) *List {
	l := &List{}
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		l.prefixes = append(l.prefixes, p)
	}
	return l
}

// Covers reports whether path is equal to, or nested under, any prefix in
// the list.
func (l *List) Covers(path string) bool {
	if l == nil {
		return false
	}
	for _, p := range l.prefixes {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

// Prefixes returns a snapshot of the list's contents in order.
func (l *List) Prefixes() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.prefixes))
	copy(out, l.prefixes)
	return out
}

// ParseConfigValue splits a TACHYON_HOME-style WHITELIST/PINLIST config
// value on commas and semicolons, as spec §6 specifies.
func ParseConfigValue(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
