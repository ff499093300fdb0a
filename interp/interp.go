// Package interp renders %{name} placeholders in translated messages.
//
// A placeholder is "%{" followed by one or more non-"}" characters and
// a closing "}". Any "%" that does not open a well-formed placeholder
// is plain text, so printf-style sequences like "100%" pass through
// untouched.
package interp

import (
	"fmt"
	"sort"
	"strings"
)

// MissingKeysError reports placeholders that had no binding.
type MissingKeysError struct {
	Keys []string // sorted, unique
}

func (e *MissingKeysError) Error() string {
	return "missing interpolation keys: " + strings.Join(e.Keys, ", ")
}

// Placeholders returns the placeholder names of template in order of
// first appearance, without duplicates.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	pos := 0
	for {
		name, _, end, ok := next(template, pos)
		if !ok {
			return names
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		pos = end
	}
}

// Render substitutes every %{name} placeholder in template with
// vars[name], formatted with fmt.Sprint. When one or more placeholders
// have no binding, Render returns "" and a MissingKeysError listing
// every missing name.
func Render(template string, vars map[string]any) (string, error) {
	var b strings.Builder
	var missing []string
	seenMissing := make(map[string]bool)
	pos := 0
	for {
		name, open, end, ok := next(template, pos)
		if !ok {
			break
		}
		b.WriteString(template[pos:open])
		if v, bound := vars[name]; bound {
			b.WriteString(fmt.Sprint(v))
		} else if !seenMissing[name] {
			seenMissing[name] = true
			missing = append(missing, name)
		}
		pos = end
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &MissingKeysError{Keys: missing}
	}
	b.WriteString(template[pos:])
	return b.String(), nil
}

// next locates the first placeholder at or after start. open and end
// bound the full %{name} sequence in s.
func next(s string, start int) (name string, open, end int, ok bool) {
	for i := start; i < len(s); {
		j := strings.IndexByte(s[i:], '%')
		if j < 0 {
			break
		}
		j += i
		if j+1 >= len(s) || s[j+1] != '{' {
			i = j + 1
			continue
		}
		k := strings.IndexByte(s[j+2:], '}')
		if k <= 0 {
			// Unclosed or empty "%{}" stays literal.
			i = j + 1
			continue
		}
		return s[j+2 : j+2+k], j, j + 2 + k + 1, true
	}
	return "", 0, 0, false
}
