package po

import "fmt"

// LexError is a lexical error at a source line.
type LexError struct {
	Line   int
	Reason string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// SyntaxError is a grammar error at a source line.
type SyntaxError struct {
	Line   int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// DuplicateKeyError reports two non-obsolete entries sharing the same
// (msgctxt, msgid) key.
type DuplicateKeyError struct {
	// Line is where the colliding entry is declared, OriginalLine
	// where the key first appeared.
	Line         int
	OriginalLine int

	Msgid       string
	MsgidPlural string
	HasPlural   bool
}

func (e *DuplicateKeyError) Error() string {
	if e.HasPlural {
		return fmt.Sprintf("line %d: duplicate msgid %q and msgid_plural %q, first declared at line %d",
			e.Line, e.Msgid, e.MsgidPlural, e.OriginalLine)
	}
	return fmt.Sprintf("line %d: duplicate msgid %q, first declared at line %d",
		e.Line, e.Msgid, e.OriginalLine)
}

// syntaxErrorBefore builds the uniform unexpected-token error.
func syntaxErrorBefore(line int, literal string) *SyntaxError {
	return &SyntaxError{Line: line, Reason: "syntax error before: " + literal}
}
