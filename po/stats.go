package po

import (
	"fmt"
	"strings"
)

// Stats holds per-state entry counts for a catalog. The buckets are
// mutually exclusive; their sum is the entry count.
type Stats struct {
	Translated   int // non-empty translation, not fuzzy, differs from msgid
	Untranslated int // empty msgstr
	Same         int // msgstr equals msgid (suspect untranslated)
	Fuzzy        int // fuzzy flag set
	Obsolete     int // obsolete entries
}

// CountStats tallies the entry states of a catalog.
func CountStats(c *Catalog) *Stats {
	s := &Stats{}
	for _, e := range c.Entries {
		switch {
		case e.Obsolete:
			s.Obsolete++
		case e.IsFuzzy():
			s.Fuzzy++
		case !e.IsTranslated():
			s.Untranslated++
		case isSame(e):
			s.Same++
		default:
			s.Translated++
		}
	}
	return s
}

// FormatStatLine formats stats in one line, similar to msgfmt
// --statistics, with same and obsolete added. Only non-zero categories
// are shown.
func FormatStatLine(s *Stats) string {
	var parts []string
	add := func(n int, singular, plural string) {
		if n == 1 {
			parts = append(parts, "1 "+singular)
		} else if n > 1 {
			parts = append(parts, fmt.Sprintf("%d %s", n, plural))
		}
	}
	add(s.Translated, "translated message", "translated messages")
	add(s.Fuzzy, "fuzzy translation", "fuzzy translations")
	add(s.Untranslated, "untranslated message", "untranslated messages")
	add(s.Same, "same message", "same messages")
	add(s.Obsolete, "obsolete entry", "obsolete entries")
	if len(parts) == 0 {
		return "0 translated messages.\n"
	}
	return strings.Join(parts, ", ") + ".\n"
}
