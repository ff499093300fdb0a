// Package lookup resolves translations at runtime from loaded
// catalogs. A Translations value indexes the usable entries of parsed
// PO catalogs (and compiled MO catalogs) per locale and domain, and
// answers gettext-style queries with the untranslated message as the
// fallback. All methods are safe for concurrent use.
package lookup

import (
	"fmt"
	"sync"

	"github.com/git-l10n/pomerge/interp"
	"github.com/git-l10n/pomerge/plural"
	"github.com/git-l10n/pomerge/po"
)

// DefaultDomain is the domain used by the methods without a domain
// parameter.
const DefaultDomain = "messages"

// message is one resolved entry: translated forms by plural index,
// a single form for singular entries.
type message struct {
	Forms  []string
	Plural bool
}

func (m message) translated() bool {
	for _, f := range m.Forms {
		if f != "" {
			return true
		}
	}
	return false
}

type domain struct {
	rule     plural.Rule
	messages map[string]message
}

// Translations is a queryable set of loaded catalogs.
type Translations struct {
	mu      sync.RWMutex
	rules   plural.Source
	domains map[string]*domain // locale + "\x00" + domain name
}

// New returns an empty translation set. A nil rules source means
// plural.Default.
func New(rules plural.Source) *Translations {
	if rules == nil {
		rules = plural.Default
	}
	return &Translations{rules: rules, domains: make(map[string]*domain)}
}

func domainKey(locale, dom string) string {
	return locale + "\x00" + dom
}

// Add indexes the catalog under locale and dom, returning the number
// of indexed messages. Fuzzy, obsolete and untranslated entries are
// skipped; entries added later win on key collisions.
func (t *Translations) Add(locale, dom string, c *po.Catalog) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, err := t.domainLocked(locale, dom)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, e := range c.Entries {
		if e.Obsolete || e.IsFuzzy() || !e.IsTranslated() {
			continue
		}
		d.messages[e.Key()] = entryMessage(e, d.rule.Forms())
		added++
	}
	return added, nil
}

// domainLocked returns the domain for (locale, dom), creating it on
// first use. The caller holds t.mu.
func (t *Translations) domainLocked(locale, dom string) (*domain, error) {
	key := domainKey(locale, dom)
	if d, ok := t.domains[key]; ok {
		return d, nil
	}
	rule, err := t.rules.Resolve(locale)
	if err != nil {
		return nil, fmt.Errorf("resolve plural rule for %q: %w", locale, err)
	}
	d := &domain{rule: rule, messages: make(map[string]message)}
	t.domains[key] = d
	return d, nil
}

func entryMessage(e *po.Entry, nforms int) message {
	if !e.HasPlural() {
		return message{Forms: []string{e.Str()}}
	}
	forms := make([]string, nforms)
	for i := 0; i < nforms; i++ {
		forms[i] = e.StrPlural(i)
	}
	return message{Forms: forms, Plural: true}
}

// Gettext returns the translation of msgid in the default domain, or
// msgid itself when none is loaded.
func (t *Translations) Gettext(locale, msgid string) string {
	return t.DGettext(locale, DefaultDomain, msgid)
}

// DGettext is Gettext within an explicit domain.
func (t *Translations) DGettext(locale, dom, msgid string) string {
	if s, ok := t.lookup(locale, dom, msgid); ok {
		return s
	}
	return msgid
}

// PGettext returns the translation of msgid under the msgctxt ctxt,
// or msgid itself when none is loaded.
func (t *Translations) PGettext(locale, ctxt, msgid string) string {
	if s, ok := t.lookup(locale, DefaultDomain, ctxt+"\x04"+msgid); ok {
		return s
	}
	return msgid
}

// NGettext returns the plural form of the translation for count n in
// the default domain. Without a loaded plural entry it falls back to
// msgid for n == 1 and msgidPlural otherwise.
func (t *Translations) NGettext(locale, msgid, msgidPlural string, n int) string {
	return t.DNGettext(locale, DefaultDomain, msgid, msgidPlural, n)
}

// DNGettext is NGettext within an explicit domain.
func (t *Translations) DNGettext(locale, dom, msgid, msgidPlural string, n int) string {
	if s, ok := t.lookupPlural(locale, dom, msgid, n); ok {
		return s
	}
	if n == 1 {
		return msgid
	}
	return msgidPlural
}

// PNGettext combines PGettext and NGettext.
func (t *Translations) PNGettext(locale, ctxt, msgid, msgidPlural string, n int) string {
	if s, ok := t.lookupPlural(locale, DefaultDomain, ctxt+"\x04"+msgid, n); ok {
		return s
	}
	if n == 1 {
		return msgid
	}
	return msgidPlural
}

// T translates msgid and renders its %{name} placeholders from vars.
func (t *Translations) T(locale, msgid string, vars map[string]any) (string, error) {
	return interp.Render(t.Gettext(locale, msgid), vars)
}

// TN translates a plural message and renders its placeholders. The
// "count" placeholder is bound to n unless vars overrides it.
func (t *Translations) TN(locale, msgid, msgidPlural string, n int, vars map[string]any) (string, error) {
	s := t.NGettext(locale, msgid, msgidPlural, n)
	if _, ok := vars["count"]; !ok {
		bound := make(map[string]any, len(vars)+1)
		for k, v := range vars {
			bound[k] = v
		}
		bound["count"] = n
		vars = bound
	}
	return interp.Render(s, vars)
}

func (t *Translations) lookup(locale, dom, key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d := t.domains[domainKey(locale, dom)]
	if d == nil {
		return "", false
	}
	m, ok := d.messages[key]
	if !ok || len(m.Forms) == 0 || m.Forms[0] == "" {
		return "", false
	}
	return m.Forms[0], true
}

// lookupPlural resolves the plural form of key for count n. Singular
// entries do not satisfy plural queries.
func (t *Translations) lookupPlural(locale, dom, key string, n int) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d := t.domains[domainKey(locale, dom)]
	if d == nil {
		return "", false
	}
	m, ok := d.messages[key]
	if !ok || !m.Plural {
		return "", false
	}
	idx := d.rule.Index(n)
	if idx >= len(m.Forms) || m.Forms[idx] == "" {
		return "", false
	}
	return m.Forms[idx], true
}
