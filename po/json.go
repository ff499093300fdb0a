package po

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONCatalog is the JSON interchange form of a catalog. String values
// are decoded (no PO escaping) and fragment boundaries are not kept.
type JSONCatalog struct {
	TopComments []string          `json:"top_comments,omitempty"`
	Header      map[string]string `json:"header,omitempty"`
	Entries     []JSONEntry       `json:"entries"`
}

// JSONEntry is one catalog entry in the JSON interchange form.
// MsgStrPlural is a dense array indexed by plural form; an entry is
// plural when msgid_plural or msgstr_plural is present.
type JSONEntry struct {
	Comments          []string `json:"comments,omitempty"`
	ExtractedComments []string `json:"extracted_comments,omitempty"`
	References        []string `json:"references,omitempty"`
	Flags             []string `json:"flags,omitempty"`
	PrevMsgCtxt       string   `json:"previous_msgctxt,omitempty"`
	PrevMsgID         string   `json:"previous_msgid,omitempty"`
	PrevMsgIDPlural   string   `json:"previous_msgid_plural,omitempty"`
	MsgCtxt           *string  `json:"msgctxt,omitempty"`
	MsgID             string   `json:"msgid"`
	MsgIDPlural       string   `json:"msgid_plural,omitempty"`
	MsgStr            string   `json:"msgstr,omitempty"`
	MsgStrPlural      []string `json:"msgstr_plural,omitempty"`
	Obsolete          bool     `json:"obsolete,omitempty"`
}

// EncodeJSON writes c to w in the JSON interchange format.
func EncodeJSON(c *Catalog, w io.Writer) error {
	out := JSONCatalog{
		TopComments: c.TopComments,
		Entries:     make([]JSONEntry, 0, len(c.Entries)),
	}
	if c.Header.Len() > 0 {
		out.Header = c.Header.Map()
	}
	for _, e := range c.Entries {
		out.Entries = append(out.Entries, entryToJSON(e))
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode catalog JSON: %w", err)
	}
	return nil
}

// DecodeJSON reads a JSON interchange catalog from r.
func DecodeJSON(r io.Reader) (*Catalog, error) {
	var in JSONCatalog
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode catalog JSON: %w", err)
	}
	c := &Catalog{TopComments: in.TopComments}
	for key, value := range in.Header {
		c.Header.Set(key, value)
	}
	for i := range in.Entries {
		c.Entries = append(c.Entries, entryFromJSON(&in.Entries[i]))
	}
	return c, nil
}

func entryToJSON(e *Entry) JSONEntry {
	j := JSONEntry{
		Comments:          e.Comments,
		ExtractedComments: e.ExtractedComments,
		Flags:             e.Flags,
		PrevMsgCtxt:       join(e.PrevMsgCtxt),
		PrevMsgID:         join(e.PrevMsgID),
		PrevMsgIDPlural:   join(e.PrevMsgIDPlural),
		MsgID:             e.ID(),
		MsgIDPlural:       e.IDPlural(),
		MsgStr:            e.Str(),
		Obsolete:          e.Obsolete,
	}
	if e.HasCtxt() {
		ctxt := e.Ctxt()
		j.MsgCtxt = &ctxt
	}
	for _, r := range e.References {
		if r.Line > 0 {
			j.References = append(j.References, fmt.Sprintf("%s:%d", r.Path, r.Line))
		} else {
			j.References = append(j.References, r.Path)
		}
	}
	if e.HasPlural() {
		indices := e.PluralIndices()
		size := 0
		if n := len(indices); n > 0 {
			size = indices[n-1] + 1
		}
		j.MsgStrPlural = make([]string, size)
		for _, i := range indices {
			j.MsgStrPlural[i] = e.StrPlural(i)
		}
		j.MsgStr = ""
	}
	return j
}

func entryFromJSON(j *JSONEntry) *Entry {
	e := &Entry{
		Comments:          j.Comments,
		ExtractedComments: j.ExtractedComments,
		Obsolete:          j.Obsolete,
		MsgID:             []string{j.MsgID},
	}
	for _, f := range j.Flags {
		e.AddFlag(f)
	}
	for _, r := range j.References {
		e.References = append(e.References, parseReferences(r)...)
	}
	if j.PrevMsgCtxt != "" {
		e.PrevMsgCtxt = []string{j.PrevMsgCtxt}
	}
	if j.PrevMsgID != "" {
		e.PrevMsgID = []string{j.PrevMsgID}
	}
	if j.PrevMsgIDPlural != "" {
		e.PrevMsgIDPlural = []string{j.PrevMsgIDPlural}
	}
	if j.MsgCtxt != nil {
		e.MsgCtxt = []string{*j.MsgCtxt}
	}
	if j.MsgIDPlural != "" || len(j.MsgStrPlural) > 0 {
		e.MsgIDPlural = []string{j.MsgIDPlural}
		e.MsgStrPlural = make(map[int][]string, len(j.MsgStrPlural))
		for i, s := range j.MsgStrPlural {
			e.MsgStrPlural[i] = []string{s}
		}
	} else {
		e.MsgStr = []string{j.MsgStr}
	}
	return e
}
