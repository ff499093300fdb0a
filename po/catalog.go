package po

import (
	"sort"
	"strings"
)

// Reference is one source location from a "#:" comment.
type Reference struct {
	Path string
	Line int // 0 when the reference carries no line number
}

// Entry is a single message of a catalog. String values are stored as
// the original quoted fragments; the value of a field is the
// concatenation of its fragments.
type Entry struct {
	// Comments are translator comments ("# "), without the sigil.
	Comments []string
	// ExtractedComments are comments extracted from source ("#. ").
	ExtractedComments []string
	// References are source locations from "#:" lines.
	References []Reference
	// Flags are "#," flags such as "fuzzy", deduplicated.
	Flags []string
	// PrevMsgCtxt, PrevMsgID and PrevMsgIDPlural hold the previous
	// message recorded in "#|" comments. A nil slice means the field
	// was not recorded.
	PrevMsgCtxt     []string
	PrevMsgID       []string
	PrevMsgIDPlural []string

	// MsgCtxt is nil when the entry has no msgctxt keyword.
	MsgCtxt []string
	MsgID   []string
	// MsgIDPlural is nil for singular entries.
	MsgIDPlural []string
	MsgStr      []string
	// MsgStrPlural maps plural form index to fragments.
	MsgStrPlural map[int][]string

	// Obsolete marks entries carried with the "#~" prefix.
	Obsolete bool

	// Line is the 1-based line of the msgid keyword, 0 for entries
	// built programmatically.
	Line int
}

func join(fragments []string) string {
	return strings.Join(fragments, "")
}

// ID returns the concatenated msgid.
func (e *Entry) ID() string { return join(e.MsgID) }

// IDPlural returns the concatenated msgid_plural.
func (e *Entry) IDPlural() string { return join(e.MsgIDPlural) }

// Ctxt returns the concatenated msgctxt, "" when absent.
func (e *Entry) Ctxt() string { return join(e.MsgCtxt) }

// Str returns the concatenated singular msgstr.
func (e *Entry) Str() string { return join(e.MsgStr) }

// StrPlural returns the concatenated msgstr for plural form index i.
func (e *Entry) StrPlural(i int) string { return join(e.MsgStrPlural[i]) }

// HasCtxt reports whether the entry carries a msgctxt keyword.
func (e *Entry) HasCtxt() bool { return e.MsgCtxt != nil }

// HasPlural reports whether the entry carries a msgid_plural keyword.
func (e *Entry) HasPlural() bool { return e.MsgIDPlural != nil }

// Key returns the identity used for duplicate detection and lookup:
// the msgid, qualified by the msgctxt with the conventional EOT
// separator when a context is present.
func (e *Entry) Key() string {
	if e.HasCtxt() {
		return e.Ctxt() + "\x04" + e.ID()
	}
	return e.ID()
}

// HasFlag reports whether flag is set on the entry.
func (e *Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AddFlag sets flag, keeping Flags deduplicated.
func (e *Entry) AddFlag(flag string) {
	if !e.HasFlag(flag) {
		e.Flags = append(e.Flags, flag)
	}
}

// RemoveFlag unsets flag.
func (e *Entry) RemoveFlag(flag string) {
	out := e.Flags[:0]
	for _, f := range e.Flags {
		if f != flag {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		e.Flags = nil
		return
	}
	e.Flags = out
}

// IsFuzzy reports whether the entry carries the fuzzy flag.
func (e *Entry) IsFuzzy() bool { return e.HasFlag("fuzzy") }

// IsTranslated reports whether any msgstr content is non-empty.
func (e *Entry) IsTranslated() bool {
	if e.HasPlural() {
		for _, frags := range e.MsgStrPlural {
			if join(frags) != "" {
				return true
			}
		}
		return false
	}
	return e.Str() != ""
}

// PluralIndices returns the plural form indices in ascending order.
func (e *Entry) PluralIndices() []int {
	indices := make([]int, 0, len(e.MsgStrPlural))
	for i := range e.MsgStrPlural {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	dup := *e
	dup.Comments = copyStrings(e.Comments)
	dup.ExtractedComments = copyStrings(e.ExtractedComments)
	dup.Flags = copyStrings(e.Flags)
	dup.PrevMsgCtxt = copyStrings(e.PrevMsgCtxt)
	dup.PrevMsgID = copyStrings(e.PrevMsgID)
	dup.PrevMsgIDPlural = copyStrings(e.PrevMsgIDPlural)
	dup.MsgCtxt = copyStrings(e.MsgCtxt)
	dup.MsgID = copyStrings(e.MsgID)
	dup.MsgIDPlural = copyStrings(e.MsgIDPlural)
	dup.MsgStr = copyStrings(e.MsgStr)
	if e.References != nil {
		dup.References = make([]Reference, len(e.References))
		copy(dup.References, e.References)
	}
	if e.MsgStrPlural != nil {
		dup.MsgStrPlural = make(map[int][]string, len(e.MsgStrPlural))
		for i, frags := range e.MsgStrPlural {
			dup.MsgStrPlural[i] = copyStrings(frags)
		}
	}
	return &dup
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	dup := make([]string, len(s))
	copy(dup, s)
	return dup
}

// EntriesEqual reports semantic equality: concatenated string values,
// comment lists, references, flag sets and obsolete state. Fragment
// boundaries and source lines are ignored.
func EntriesEqual(a, b *Entry) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.HasCtxt() != b.HasCtxt() || a.Ctxt() != b.Ctxt() {
		return false
	}
	if a.ID() != b.ID() {
		return false
	}
	if a.HasPlural() != b.HasPlural() || a.IDPlural() != b.IDPlural() {
		return false
	}
	if a.Str() != b.Str() {
		return false
	}
	if !pluralsEqual(a.MsgStrPlural, b.MsgStrPlural) {
		return false
	}
	if a.Obsolete != b.Obsolete {
		return false
	}
	if !stringsEqual(a.Comments, b.Comments) ||
		!stringsEqual(a.ExtractedComments, b.ExtractedComments) {
		return false
	}
	if !flagsEqual(a.Flags, b.Flags) {
		return false
	}
	if !referencesEqual(a.References, b.References) {
		return false
	}
	if join(a.PrevMsgCtxt) != join(b.PrevMsgCtxt) ||
		join(a.PrevMsgID) != join(b.PrevMsgID) ||
		join(a.PrevMsgIDPlural) != join(b.PrevMsgIDPlural) {
		return false
	}
	return true
}

func pluralsEqual(a, b map[int][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, frags := range a {
		other, ok := b[i]
		if !ok || join(frags) != join(other) {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func flagsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	return stringsEqual(as, bs)
}

func referencesEqual(a, b []Reference) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// HeaderField is one "Key: value" line of the catalog header.
type HeaderField struct {
	Key   string
	Value string
}

// Header holds the key/value fields of the header entry, in original
// order. Field order matters only for serialization; equality is
// order-insensitive.
type Header struct {
	fields []HeaderField
}

// Len returns the number of header fields.
func (h *Header) Len() int { return len(h.fields) }

// Fields returns the header fields in order.
func (h *Header) Fields() []HeaderField { return h.fields }

// Get returns the value for key, matching case-insensitively.
// It returns "" when the key is absent.
func (h *Header) Get(key string) string {
	for _, f := range h.fields {
		if strings.EqualFold(f.Key, key) {
			return f.Value
		}
	}
	return ""
}

// Set replaces the value of key, or appends the field when absent.
func (h *Header) Set(key, value string) {
	for i, f := range h.fields {
		if strings.EqualFold(f.Key, key) {
			h.fields[i].Value = value
			return
		}
	}
	h.fields = append(h.fields, HeaderField{Key: key, Value: value})
}

// Map returns the header as a key to value map.
func (h *Header) Map() map[string]string {
	m := make(map[string]string, len(h.fields))
	for _, f := range h.fields {
		if _, ok := m[f.Key]; !ok {
			m[f.Key] = f.Value
		}
	}
	return m
}

// Clone returns a copy of the header.
func (h *Header) Clone() Header {
	return Header{fields: append([]HeaderField(nil), h.fields...)}
}

// Equal reports order-insensitive header equality.
func (h *Header) Equal(other *Header) bool {
	a, b := h.Map(), other.Map()
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// parseHeader folds a header msgstr value into fields. Lines without a
// colon are dropped.
func parseHeader(value string) Header {
	var h Header
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		h.fields = append(h.fields, HeaderField{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(val),
		})
	}
	return h
}

// Catalog is a parsed PO file: free-standing comments above the header,
// the header fields, and the entries in file order.
type Catalog struct {
	// TopComments are raw comment lines (with sigils) preceding the
	// header entry.
	TopComments []string
	Header      Header
	Entries     []*Entry
}

// Equal reports semantic catalog equality: same header map, same
// top comments, and pairwise equal entries in the same order.
func (c *Catalog) Equal(other *Catalog) bool {
	if !c.Header.Equal(&other.Header) {
		return false
	}
	if !stringsEqual(c.TopComments, other.TopComments) {
		return false
	}
	if len(c.Entries) != len(other.Entries) {
		return false
	}
	for i := range c.Entries {
		if !EntriesEqual(c.Entries[i], other.Entries[i]) {
			return false
		}
	}
	return true
}
