package po

import (
	"fmt"
	"strconv"
	"strings"
)

var keywords = map[string]TokenKind{
	"msgid":        TokenMsgid,
	"msgid_plural": TokenMsgidPlural,
	"msgstr":       TokenMsgstr,
	"msgctxt":      TokenMsgctxt,
}

// Scan splits PO text into tokens in a single forward pass. Strings must
// open and close on one line; keywords must be followed by whitespace;
// only the escapes \n, \t, \\ and \" are recognized. A "#~ " prefix
// marks the tokens of that line obsolete. On error Scan returns a
// *LexError carrying the 1-based line.
func Scan(data []byte) ([]Token, error) {
	var tokens []Token
	lines := strings.Split(string(data), "\n")
	for i, raw := range lines {
		lineno := i + 1
		last := i == len(lines)-1
		text := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if text == "" {
			continue
		}

		obsolete := false
		if strings.HasPrefix(text, "#~") {
			rest := strings.TrimSpace(text[2:])
			if rest == "" {
				continue
			}
			if strings.HasPrefix(rest, "|") {
				// "#~|" is an obsolete previous-msgid comment.
				tokens = append(tokens, Token{
					Kind: TokenComment, Line: lineno, Text: "#" + rest, Obsolete: true,
				})
				continue
			}
			obsolete = true
			text = rest
		}

		if strings.HasPrefix(text, "#") {
			tokens = append(tokens, Token{Kind: TokenComment, Line: lineno, Text: text})
			continue
		}

		toks, err := scanLine(text, lineno, last, obsolete)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, toks...)
	}
	return tokens, nil
}

func scanLine(text string, lineno int, last, obsolete bool) ([]Token, error) {
	var tokens []Token
	pos := 0
	for pos < len(text) {
		c := text[pos]
		switch {
		case c == ' ' || c == '\t':
			pos++
		case c == '"':
			value, next, err := scanString(text, pos, lineno, last)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{
				Kind: TokenString, Line: lineno, Text: value, Obsolete: obsolete,
			})
			pos = next
		case c >= 'a' && c <= 'z':
			toks, next, err := scanKeyword(text, pos, lineno, obsolete)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, toks...)
			pos = next
		default:
			return nil, &LexError{Line: lineno, Reason: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return tokens, nil
}

// scanString decodes one quoted string starting at the opening quote.
func scanString(text string, start, lineno int, last bool) (string, int, error) {
	var b strings.Builder
	i := start + 1
	for i < len(text) {
		switch c := text[i]; c {
		case '"':
			return b.String(), i + 1, nil
		case '\\':
			if i+1 >= len(text) {
				i = len(text)
				continue
			}
			switch e := text[i+1]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				return "", 0, &LexError{
					Line:   lineno,
					Reason: fmt.Sprintf(`unsupported escape code \%c`, e),
				}
			}
			i += 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	if last {
		return "", 0, &LexError{Line: lineno, Reason: "missing string terminator"}
	}
	return "", 0, &LexError{Line: lineno, Reason: "newline in string"}
}

func scanKeyword(text string, start, lineno int, obsolete bool) ([]Token, int, error) {
	end := start
	for end < len(text) && (isWordChar(text[end])) {
		end++
	}
	word := text[start:end]
	kind, ok := keywords[word]
	if !ok {
		return nil, 0, &LexError{Line: lineno, Reason: fmt.Sprintf("unknown keyword %q", word)}
	}

	var tokens []Token
	pos := end
	label := word
	if kind == TokenMsgstr && pos < len(text) && text[pos] == '[' {
		idxEnd := pos + 1
		for idxEnd < len(text) && text[idxEnd] >= '0' && text[idxEnd] <= '9' {
			idxEnd++
		}
		if idxEnd == pos+1 || idxEnd >= len(text) || text[idxEnd] != ']' {
			return nil, 0, &LexError{Line: lineno, Reason: "invalid msgstr index"}
		}
		n, err := strconv.Atoi(text[pos+1 : idxEnd])
		if err != nil {
			return nil, 0, &LexError{Line: lineno, Reason: "invalid msgstr index"}
		}
		tokens = append(tokens,
			Token{Kind: TokenMsgstr, Line: lineno, Obsolete: obsolete},
			Token{Kind: TokenPluralIndex, Line: lineno, Index: n, Obsolete: obsolete},
		)
		pos = idxEnd + 1
		label = fmt.Sprintf("msgstr[%d]", n)
	} else {
		tokens = append(tokens, Token{Kind: kind, Line: lineno, Obsolete: obsolete})
	}

	if pos < len(text) && text[pos] != ' ' && text[pos] != '\t' {
		return nil, 0, &LexError{
			Line:   lineno,
			Reason: fmt.Sprintf("no space after keyword %q", label),
		}
	}
	return tokens, pos, nil
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
}
