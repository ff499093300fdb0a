// Package merge reconciles a translated catalog with a freshly
// extracted template, the way msgmerge does: exact key matches carry
// the old translation forward, dropped msgids pair with similar new
// ones as fuzzy matches, and leftovers become obsolete.
package merge

import (
	"fmt"

	"github.com/agext/levenshtein"
	log "github.com/sirupsen/logrus"

	"github.com/git-l10n/pomerge/po"
)

// ChangeSummary tallies what one merge run did.
type ChangeSummary struct {
	New       int // template entries with no old counterpart
	Removed   int // old entries dropped under the delete policy
	Unchanged int // exact key matches
	Fuzzy     int // similarity matches flagged for review
	Obsolete  int // old entries newly marked with #~
}

func (s ChangeSummary) String() string {
	return fmt.Sprintf("%d new, %d removed, %d unchanged, %d fuzzy, %d obsolete",
		s.New, s.Removed, s.Unchanged, s.Fuzzy, s.Obsolete)
}

// Merge builds a new catalog from old (the translated catalog, nil
// when no prior file exists) and template (the freshly extracted
// shape). Neither input is modified.
//
// Merged entries follow template order; obsolete entries kept under
// MarkAsObsolete are appended after them in their old relative order.
// Old entries that were already obsolete pass through unclaimed and
// uncounted, so merging twice against the same template reports all
// zeros except Unchanged.
func Merge(old, template *po.Catalog, policy Policy) (*po.Catalog, ChangeSummary, error) {
	var sum ChangeSummary
	if err := policy.Validate(); err != nil {
		return nil, sum, err
	}
	if old == nil {
		old = &po.Catalog{}
	}
	if template == nil {
		template = &po.Catalog{}
	}

	locale := effectiveLocale(policy, old, template)
	nforms, formsValue, err := policy.resolveForms(locale)
	if err != nil {
		return nil, sum, err
	}

	// Exact key matches. A key carried both live and obsolete in the
	// old catalog resolves to the live entry; an obsolete-only match
	// revives the entry.
	oldByKey := make(map[string]*po.Entry, len(old.Entries))
	for _, e := range old.Entries {
		k := e.Key()
		if prev, ok := oldByKey[k]; !ok || (prev.Obsolete && !e.Obsolete) {
			oldByKey[k] = e
		}
	}
	claimed := make(map[*po.Entry]bool)
	exact := make(map[*po.Entry]*po.Entry, len(template.Entries))
	for _, t := range template.Entries {
		if o, ok := oldByKey[t.Key()]; ok && !claimed[o] {
			exact[t] = o
			claimed[o] = true
		}
	}

	// Fuzzy candidates: live old entries not claimed above, in
	// declaration order so ties keep the earliest.
	var pool []*po.Entry
	for _, e := range old.Entries {
		if !e.Obsolete && !claimed[e] {
			pool = append(pool, e)
		}
	}

	merged := &po.Catalog{}
	for _, t := range template.Entries {
		if o := exact[t]; o != nil {
			merged.Entries = append(merged.Entries, mergeExact(t, o, nforms))
			sum.Unchanged++
			continue
		}
		if o, i := bestMatch(t.ID(), pool, policy.FuzzyThreshold); o != nil {
			pool = append(pool[:i], pool[i+1:]...)
			claimed[o] = true
			merged.Entries = append(merged.Entries, mergeFuzzy(t, o, nforms, policy))
			sum.Fuzzy++
			continue
		}
		merged.Entries = append(merged.Entries, newEntry(t, nforms))
		sum.New++
	}

	for _, e := range old.Entries {
		if claimed[e] {
			continue
		}
		if e.Obsolete {
			if policy.OnObsolete == MarkAsObsolete {
				merged.Entries = append(merged.Entries, e.Clone())
			}
			continue
		}
		if policy.OnObsolete == Delete {
			sum.Removed++
			continue
		}
		merged.Entries = append(merged.Entries, obsoleteEntry(e))
		sum.Obsolete++
	}

	mergeHeader(merged, old, template, locale, formsValue)

	log.Debugf("merged %d template and %d old entries: %s",
		len(template.Entries), len(old.Entries), sum)
	return merged, sum, nil
}

// bestMatch returns the pool entry most similar to msgid along with
// its pool index, scanning in order so ties keep the earliest entry.
// It returns nil when the best score stays below threshold.
func bestMatch(msgid string, pool []*po.Entry, threshold float64) (*po.Entry, int) {
	var best *po.Entry
	bestIdx := -1
	bestScore := -1.0
	for i, e := range pool {
		if score := levenshtein.Similarity(msgid, e.ID(), nil); score > bestScore {
			best, bestIdx, bestScore = e, i, score
		}
	}
	if best == nil || bestScore < threshold {
		return nil, -1
	}
	return best, bestIdx
}

// mergeExact carries the old translation into the template's shape.
// Tool-derived fields (references, extracted comments, msgid_plural
// text) come from the template; the translator's msgstr and comments
// come from the old entry. A stale fuzzy flag and any #| snapshot are
// dropped.
func mergeExact(t, o *po.Entry, nforms int) *po.Entry {
	e := t.Clone()
	e.Comments = copyFragments(o.Comments)
	fitTranslation(e, o, nforms)
	e.Flags = unionFlags(o.Flags, t.Flags)
	e.RemoveFlag("fuzzy")
	e.PrevMsgCtxt = nil
	e.PrevMsgID = nil
	e.PrevMsgIDPlural = nil
	e.Obsolete = false
	return e
}

// mergeFuzzy pairs a new msgid with the dropped old entry it most
// resembles. The old msgstr stays as a provisional translation and
// the entry is flagged fuzzy for review.
func mergeFuzzy(t, o *po.Entry, nforms int, policy Policy) *po.Entry {
	e := t.Clone()
	e.Comments = copyFragments(o.Comments)
	fitTranslation(e, o, nforms)
	e.Flags = unionFlags(o.Flags, t.Flags)
	e.AddFlag("fuzzy")
	e.PrevMsgCtxt = nil
	e.PrevMsgID = nil
	e.PrevMsgIDPlural = nil
	e.Obsolete = false
	if policy.StorePrevious {
		e.PrevMsgID = copyFragments(o.MsgID)
		if o.HasPlural() {
			e.PrevMsgIDPlural = copyFragments(o.MsgIDPlural)
		}
		if o.HasCtxt() {
			e.PrevMsgCtxt = copyFragments(o.MsgCtxt)
		}
	}
	return e
}

// newEntry inserts a template entry with empty translations sized to
// the locale's plural form count.
func newEntry(t *po.Entry, nforms int) *po.Entry {
	e := t.Clone()
	if e.HasPlural() {
		e.MsgStr = nil
		e.MsgStrPlural = resizeForms(nil, nforms)
	} else {
		e.MsgStr = []string{""}
		e.MsgStrPlural = nil
	}
	e.PrevMsgCtxt = nil
	e.PrevMsgID = nil
	e.PrevMsgIDPlural = nil
	e.Obsolete = false
	return e
}

// obsoleteEntry retires a live old entry: #~ marker on, stale source
// references dropped.
func obsoleteEntry(o *po.Entry) *po.Entry {
	e := o.Clone()
	e.Obsolete = true
	e.References = nil
	return e
}

// fitTranslation copies the old msgstr content into dst, reshaping
// between singular and plural as the template demands.
func fitTranslation(dst, old *po.Entry, nforms int) {
	if dst.HasPlural() {
		src := old.MsgStrPlural
		if !old.HasPlural() && len(old.MsgStr) > 0 {
			src = map[int][]string{0: old.MsgStr}
		}
		dst.MsgStr = nil
		dst.MsgStrPlural = resizeForms(src, nforms)
		return
	}
	dst.MsgStrPlural = nil
	if old.HasPlural() {
		dst.MsgStr = fragmentsOrEmpty(old.MsgStrPlural[0])
		return
	}
	dst.MsgStr = fragmentsOrEmpty(old.MsgStr)
}

// resizeForms fits a plural msgstr block to nforms: indices beyond the
// count are dropped, missing ones come up empty.
func resizeForms(src map[int][]string, nforms int) map[int][]string {
	out := make(map[int][]string, nforms)
	for i := 0; i < nforms; i++ {
		out[i] = fragmentsOrEmpty(src[i])
	}
	return out
}

func fragmentsOrEmpty(frags []string) []string {
	if len(frags) == 0 {
		return []string{""}
	}
	return copyFragments(frags)
}

func copyFragments(s []string) []string {
	if s == nil {
		return nil
	}
	dup := make([]string, len(s))
	copy(dup, s)
	return dup
}

// unionFlags joins two flag lists, keeping first appearance order.
func unionFlags(a, b []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range a {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, f := range b {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// effectiveLocale picks the locale for plural sizing and the Language
// header: the policy's, else the old catalog's Language field, else
// the template's.
func effectiveLocale(policy Policy, old, template *po.Catalog) string {
	if policy.Locale != "" {
		return policy.Locale
	}
	if lang := old.Header.Get("Language"); lang != "" {
		return lang
	}
	return template.Header.Get("Language")
}

// mergeHeader synthesizes the merged header: the old header when it
// has any fields, else the template's, with Language and Plural-Forms
// force-written. Top comments carry the same way.
func mergeHeader(merged, old, template *po.Catalog, locale, formsValue string) {
	if old.Header.Len() > 0 {
		merged.Header = old.Header.Clone()
	} else {
		merged.Header = template.Header.Clone()
	}
	if len(old.TopComments) > 0 {
		merged.TopComments = copyFragments(old.TopComments)
	} else {
		merged.TopComments = copyFragments(template.TopComments)
	}
	if locale != "" {
		merged.Header.Set("Language", locale)
	}
	merged.Header.Set("Plural-Forms", formsValue)
}
