// Package po implements the gettext PO catalog format: a token scanner,
// a grammar parser producing Catalog values, and a serializer that is
// the inverse of the parser.
package po

import "fmt"

// TokenKind is the lexical class of a token.
type TokenKind int

// Token kinds produced by Scan.
const (
	TokenMsgid TokenKind = iota
	TokenMsgidPlural
	TokenMsgstr
	TokenMsgctxt
	TokenPluralIndex
	TokenString
	TokenComment
)

// Token is one lexical unit of a PO file.
type Token struct {
	Kind TokenKind

	// Line is the 1-based source line the token starts on.
	Line int

	// Text is the decoded value for TokenString, or the raw comment
	// line including its sigil for TokenComment.
	Text string

	// Index is the plural form index for TokenPluralIndex.
	Index int

	// Obsolete is set for tokens scanned from a "#~" line.
	Obsolete bool
}

// literal renders the token the way error messages cite it.
func (t Token) literal() string {
	switch t.Kind {
	case TokenMsgid:
		return "msgid"
	case TokenMsgidPlural:
		return "msgid_plural"
	case TokenMsgstr:
		return "msgstr"
	case TokenMsgctxt:
		return "msgctxt"
	case TokenPluralIndex:
		return fmt.Sprintf("msgstr[%d]", t.Index)
	case TokenString:
		return `"` + escape(t.Text) + `"`
	case TokenComment:
		return t.Text
	}
	return "unknown token"
}
