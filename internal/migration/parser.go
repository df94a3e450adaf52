package migration

import (
	"strings"

	"golang.org/x/text/cases"
)

// Entry is one parsed legacy-loadout reference: a weapon name and the set it
// shipped in.
type Entry struct {
	Name string
	Set  string
	Raw  string
}

// parseLoadout splits a legacy loadout text into entries. The grammar is
// `entry (";" entry)*` with `entry = name "|" set`; whitespace around names,
// sets and separators carries no meaning. Malformed entries are returned
// separately, never fatal.
func parseLoadout(text string) (entries []Entry, malformed []string) {
	for _, raw := range strings.Split(text, ";") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		parts := strings.Split(trimmed, "|")
		if len(parts) != 2 {
			malformed = append(malformed, trimmed)
			continue
		}

		name := strings.TrimSpace(parts[0])
		set := strings.TrimSpace(parts[1])
		if name == "" || set == "" {
			malformed = append(malformed, trimmed)
			continue
		}

		entries = append(entries, Entry{Name: name, Set: set, Raw: trimmed})
	}
	return entries, malformed
}

var folder = cases.Fold()

// entryKey is the case-folded lookup key of a (name, set) pair, so legacy
// text matches catalog definitions regardless of casing.
func entryKey(name, set string) string {
	return folder.String(name) + "|" + folder.String(set)
}
