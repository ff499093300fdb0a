package po

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// refLineWidth is the column limit for wrapped "#:" reference lines.
const refLineWidth = 80

// Serialize renders the catalog as PO text. It is the inverse of
// Parse: parsing the output yields a semantically equal catalog.
// Flags are written in lexicographic order and references are wrapped
// onto the minimal number of lines within the column limit.
func Serialize(c *Catalog) []byte {
	var b bytes.Buffer
	for _, line := range c.TopComments {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("msgid \"\"\n")
	b.WriteString("msgstr \"\"\n")
	for _, f := range c.Header.Fields() {
		fmt.Fprintf(&b, "\"%s\"\n", escape(f.Key+": "+f.Value+"\n"))
	}
	for _, e := range c.Entries {
		b.WriteByte('\n')
		writeEntry(&b, e)
	}
	return b.Bytes()
}

func writeEntry(b *bytes.Buffer, e *Entry) {
	for _, c := range e.Comments {
		writeComment(b, "#", c)
	}
	for _, c := range e.ExtractedComments {
		writeComment(b, "#.", c)
	}
	writeReferences(b, e.References)
	if len(e.Flags) > 0 {
		flags := append([]string(nil), e.Flags...)
		sort.Strings(flags)
		fmt.Fprintf(b, "#, %s\n", strings.Join(flags, ", "))
	}
	prevPrefix := "#| "
	prefix := ""
	if e.Obsolete {
		prevPrefix = "#~| "
		prefix = "#~ "
	}
	if e.PrevMsgCtxt != nil {
		writeField(b, prevPrefix, "msgctxt", e.PrevMsgCtxt)
	}
	if e.PrevMsgID != nil {
		writeField(b, prevPrefix, "msgid", e.PrevMsgID)
	}
	if e.PrevMsgIDPlural != nil {
		writeField(b, prevPrefix, "msgid_plural", e.PrevMsgIDPlural)
	}
	if e.HasCtxt() {
		writeField(b, prefix, "msgctxt", e.MsgCtxt)
	}
	writeField(b, prefix, "msgid", e.MsgID)
	if e.HasPlural() {
		writeField(b, prefix, "msgid_plural", e.MsgIDPlural)
		indices := e.PluralIndices()
		if len(indices) == 0 {
			indices = []int{0}
		}
		for _, i := range indices {
			writeField(b, prefix, fmt.Sprintf("msgstr[%d]", i), e.MsgStrPlural[i])
		}
	} else {
		writeField(b, prefix, "msgstr", e.MsgStr)
	}
}

func writeComment(b *bytes.Buffer, sigil, text string) {
	if text == "" {
		b.WriteString(sigil)
		b.WriteByte('\n')
		return
	}
	fmt.Fprintf(b, "%s %s\n", sigil, text)
}

// writeField emits a keyword and its value, one quoted literal per
// fragment. Continuation fragments go on their own lines, keeping the
// obsolete prefix when present.
func writeField(b *bytes.Buffer, prefix, keyword string, fragments []string) {
	if len(fragments) == 0 {
		fragments = []string{""}
	}
	fmt.Fprintf(b, "%s%s \"%s\"\n", prefix, keyword, escape(fragments[0]))
	for _, f := range fragments[1:] {
		fmt.Fprintf(b, "%s\"%s\"\n", prefix, escape(f))
	}
}

// writeReferences greedily packs references onto "#:" lines within the
// column limit, one reference minimum per line. A reference with a
// line number never follows a lineless one on the same line: the
// parser takes the last ":digits" group of a line as the separator
// and would fold the lineless path into the next reference.
func writeReferences(b *bytes.Buffer, refs []Reference) {
	if len(refs) == 0 {
		return
	}
	line := "#:"
	lineless := false
	for _, r := range refs {
		token := r.Path
		if r.Line > 0 {
			token = fmt.Sprintf("%s:%d", r.Path, r.Line)
		}
		if line != "#:" && (len(line)+1+len(token) > refLineWidth || (lineless && r.Line > 0)) {
			b.WriteString(line)
			b.WriteByte('\n')
			line = "#:"
			lineless = false
		}
		line += " " + token
		if r.Line <= 0 {
			lineless = true
		}
	}
	b.WriteString(line)
	b.WriteByte('\n')
}

// escape encodes the value of a quoted literal. Only the escapes the
// scanner decodes are produced.
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
