package po

// StateFilter selects entries by translation state. Translated,
// Untranslated and Fuzzy combine as OR; OnlySame and OnlyObsolete are
// single-state filters that exclude everything else.
type StateFilter struct {
	Translated   bool
	Untranslated bool
	Fuzzy        bool
	// WithObsolete includes obsolete entries (the default); NoObsolete
	// wins when both are set.
	WithObsolete bool
	NoObsolete   bool
	OnlySame     bool
	OnlyObsolete bool
}

// DefaultFilter returns the filter that selects every entry.
func DefaultFilter() StateFilter {
	return StateFilter{WithObsolete: true}
}

// HasStateFilter reports whether any of the OR-combined state flags is set.
func (f StateFilter) HasStateFilter() bool {
	return f.Translated || f.Untranslated || f.Fuzzy
}

// IncludeObsolete reports whether obsolete entries pass the filter.
func (f StateFilter) IncludeObsolete() bool {
	if f.NoObsolete {
		return false
	}
	return f.WithObsolete
}

// Filter returns the entries matching f, preserving order.
func Filter(entries []*Entry, f StateFilter) []*Entry {
	var out []*Entry
	for _, e := range entries {
		if Match(e, f) {
			out = append(out, e)
		}
	}
	return out
}

// Match reports whether e matches f.
func Match(e *Entry, f StateFilter) bool {
	if f.OnlySame {
		return isSame(e) && !e.Obsolete
	}
	if f.OnlyObsolete {
		return e.Obsolete
	}

	if e.Obsolete {
		return f.IncludeObsolete()
	}

	if f.HasStateFilter() {
		matched := false
		if f.Translated && e.IsTranslated() && !e.IsFuzzy() {
			matched = true
		}
		if f.Untranslated && !e.IsTranslated() {
			matched = true
		}
		if f.Fuzzy && e.IsFuzzy() {
			matched = true
		}
		return matched
	}
	return true
}

// isSame reports a msgstr equal to its msgid, a suspect untranslated entry.
func isSame(e *Entry) bool {
	if e.HasPlural() {
		return e.StrPlural(0) == e.ID()
	}
	return e.Str() == e.ID()
}
