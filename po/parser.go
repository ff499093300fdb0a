package po

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Parse scans and parses PO text into a Catalog. Errors are *LexError,
// *SyntaxError or *DuplicateKeyError values carrying 1-based lines.
func Parse(data []byte) (*Catalog, error) {
	tokens, err := Scan(data)
	if err != nil {
		return nil, err
	}
	return parseTokens(tokens)
}

type parser struct {
	tokens   []Token
	pos      int
	lastLine int
}

func (p *parser) eof() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() (Token, bool) {
	if p.eof() {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	p.pos++
	p.lastLine = tok.Line
	return tok
}

func (p *parser) errEndOfInput() *SyntaxError {
	return syntaxErrorBefore(p.lastLine, "end of input")
}

func parseTokens(tokens []Token) (*Catalog, error) {
	c := &Catalog{}
	p := &parser{tokens: tokens}
	seen := make(map[string]*Entry)
	headerAllowed := true

	for {
		var comments []Token
		for {
			tok, ok := p.peek()
			if !ok || tok.Kind != TokenComment {
				break
			}
			p.advance()
			comments = append(comments, tok)
		}
		// Comments not followed by an entry attach to nothing.
		if p.eof() {
			break
		}

		e, err := p.parseMessage()
		if err != nil {
			return nil, err
		}

		if headerAllowed && !e.Obsolete && !e.HasCtxt() && !e.HasPlural() && e.ID() == "" {
			c.Header = parseHeader(e.Str())
			for _, tok := range comments {
				c.TopComments = append(c.TopComments, tok.Text)
			}
			headerAllowed = false
			continue
		}
		headerAllowed = false

		if err := applyComments(e, comments); err != nil {
			return nil, err
		}

		if !e.Obsolete {
			if orig, dup := seen[e.Key()]; dup {
				return nil, &DuplicateKeyError{
					Line:         e.Line,
					OriginalLine: orig.Line,
					Msgid:        e.ID(),
					MsgidPlural:  e.IDPlural(),
					HasPlural:    e.HasPlural(),
				}
			}
			seen[e.Key()] = e
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

// parseMessage consumes one entry: optional msgctxt, msgid, optional
// msgid_plural, then msgstr or indexed msgstr forms.
func (p *parser) parseMessage() (*Entry, error) {
	e := &Entry{}

	tok, ok := p.peek()
	if ok && tok.Kind == TokenMsgctxt {
		p.advance()
		frags, err := p.stringFragments()
		if err != nil {
			return nil, err
		}
		e.MsgCtxt = frags
	}

	tok, ok = p.peek()
	if !ok {
		return nil, p.errEndOfInput()
	}
	if tok.Kind != TokenMsgid {
		return nil, syntaxErrorBefore(tok.Line, tok.literal())
	}
	p.advance()
	e.Line = tok.Line
	e.Obsolete = tok.Obsolete
	frags, err := p.stringFragments()
	if err != nil {
		return nil, err
	}
	e.MsgID = frags

	if tok, ok := p.peek(); ok && tok.Kind == TokenMsgidPlural {
		p.advance()
		frags, err := p.stringFragments()
		if err != nil {
			return nil, err
		}
		e.MsgIDPlural = frags
	}

	if e.HasPlural() {
		return e, p.parsePluralStrs(e)
	}

	tok, ok = p.peek()
	if !ok {
		return nil, p.errEndOfInput()
	}
	if tok.Kind != TokenMsgstr {
		return nil, syntaxErrorBefore(tok.Line, tok.literal())
	}
	p.advance()
	if idx, ok := p.peek(); ok && idx.Kind == TokenPluralIndex {
		return nil, syntaxErrorBefore(idx.Line, idx.literal())
	}
	frags, err = p.stringFragments()
	if err != nil {
		return nil, err
	}
	e.MsgStr = frags
	return e, nil
}

func (p *parser) parsePluralStrs(e *Entry) error {
	e.MsgStrPlural = make(map[int][]string)
	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != TokenMsgstr {
			break
		}
		p.advance()
		idx, ok := p.peek()
		if !ok {
			return p.errEndOfInput()
		}
		if idx.Kind != TokenPluralIndex {
			return syntaxErrorBefore(idx.Line, idx.literal())
		}
		p.advance()
		if _, dup := e.MsgStrPlural[idx.Index]; dup {
			return &SyntaxError{
				Line:   idx.Line,
				Reason: fmt.Sprintf("duplicate plural form index %d", idx.Index),
			}
		}
		frags, err := p.stringFragments()
		if err != nil {
			return err
		}
		e.MsgStrPlural[idx.Index] = frags
	}
	if len(e.MsgStrPlural) == 0 {
		tok, ok := p.peek()
		if !ok {
			return p.errEndOfInput()
		}
		return syntaxErrorBefore(tok.Line, tok.literal())
	}
	return nil
}

// stringFragments consumes one or more consecutive string tokens.
func (p *parser) stringFragments() ([]string, error) {
	var frags []string
	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != TokenString {
			break
		}
		p.advance()
		frags = append(frags, tok.Text)
	}
	if frags == nil {
		tok, ok := p.peek()
		if !ok {
			return nil, p.errEndOfInput()
		}
		return nil, syntaxErrorBefore(tok.Line, tok.literal())
	}
	return frags, nil
}

// applyComments classifies the comment block preceding an entry.
func applyComments(e *Entry, comments []Token) error {
	var prev []Token
	for _, tok := range comments {
		text := tok.Text
		switch {
		case strings.HasPrefix(text, "#."):
			e.ExtractedComments = append(e.ExtractedComments, strings.TrimSpace(text[2:]))
		case strings.HasPrefix(text, "#:"):
			e.References = append(e.References, parseReferences(text[2:])...)
		case strings.HasPrefix(text, "#,"):
			for _, flag := range splitFlags(text[2:]) {
				e.AddFlag(flag)
			}
		case strings.HasPrefix(text, "#|"):
			prev = append(prev, tok)
		default:
			e.Comments = append(e.Comments, strings.TrimSpace(text[1:]))
		}
	}
	if prev != nil {
		return parsePrevious(e, prev)
	}
	return nil
}

// parsePrevious parses a "#|" comment block as the previous message:
// optional msgctxt, msgid, optional msgid_plural.
func parsePrevious(e *Entry, comments []Token) error {
	var tokens []Token
	for _, tok := range comments {
		payload := strings.TrimSpace(tok.Text[2:])
		if payload == "" {
			continue
		}
		scanned, err := Scan([]byte(payload))
		if err != nil {
			if lex, ok := err.(*LexError); ok {
				lex.Line = tok.Line
				return lex
			}
			return err
		}
		for i := range scanned {
			scanned[i].Line = tok.Line
		}
		tokens = append(tokens, scanned...)
	}
	if len(tokens) == 0 {
		return nil
	}

	p := &parser{tokens: tokens, lastLine: comments[len(comments)-1].Line}
	if tok, ok := p.peek(); ok && tok.Kind == TokenMsgctxt {
		p.advance()
		frags, err := p.stringFragments()
		if err != nil {
			return err
		}
		e.PrevMsgCtxt = frags
	}
	tok, ok := p.peek()
	if !ok {
		return p.errEndOfInput()
	}
	if tok.Kind != TokenMsgid {
		return syntaxErrorBefore(tok.Line, tok.literal())
	}
	p.advance()
	frags, err := p.stringFragments()
	if err != nil {
		return err
	}
	e.PrevMsgID = frags
	if tok, ok := p.peek(); ok && tok.Kind == TokenMsgidPlural {
		p.advance()
		frags, err := p.stringFragments()
		if err != nil {
			return err
		}
		e.PrevMsgIDPlural = frags
	}
	if tok, ok := p.peek(); ok {
		return syntaxErrorBefore(tok.Line, tok.literal())
	}
	return nil
}

var refLineNumber = regexp.MustCompile(`:(\d+)(?:\s|$)`)

// parseReferences extracts path:line pairs from a "#:" payload. The
// line separator is the last ":digits" group of each reference, so
// paths may contain colons and spaces. A trailing token without a line
// number keeps Line 0.
func parseReferences(payload string) []Reference {
	rest := strings.TrimSpace(payload)
	if rest == "" {
		return nil
	}
	var refs []Reference
	last := 0
	for _, m := range refLineNumber.FindAllStringSubmatchIndex(rest, -1) {
		path := strings.TrimSpace(rest[last:m[0]])
		last = m[1]
		if path == "" {
			continue
		}
		line, _ := strconv.Atoi(rest[m[2]:m[3]])
		refs = append(refs, Reference{Path: path, Line: line})
	}
	for _, path := range strings.Fields(rest[last:]) {
		refs = append(refs, Reference{Path: path})
	}
	return refs
}

func splitFlags(payload string) []string {
	return strings.FieldsFunc(payload, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
