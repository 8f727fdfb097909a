// Package blacklist decides whether a window belongs to the configured block list.
package blacklist

// Match reports whether class or title equals one of the entries.
// Comparison is exact and case-sensitive; entries must match the strings the
// display server reports verbatim.
func Match(class, title string, entries []string) bool {
	_, ok := find(class, title, entries)
	return ok
}

func find(class, title string, entries []string) (string, bool) {
	for _, e := range entries {
		if e == class || e == title {
			return e, true
		}
	}
	return "", false
}

// List is an immutable, ordered block list.
type List struct {
	entries []string
}

// New copies entries into a List.
func New(entries []string) List {
	return List{entries: append([]string(nil), entries...)}
}

// Contains reports whether the window class or title is blocked.
func (l List) Contains(class, title string) bool {
	return Match(class, title, l.entries)
}

// Find returns the first entry matching class or title.
func (l List) Find(class, title string) (string, bool) {
	return find(class, title, l.entries)
}

// Entries returns a copy of the configured entries in order.
func (l List) Entries() []string {
	return append([]string(nil), l.entries...)
}

// Len returns the number of entries.
func (l List) Len() int {
	return len(l.entries)
}
