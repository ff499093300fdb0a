// Package plural evaluates plural-form rules for locales.
//
// The Default source is table-driven over locale families and never
// fails: unknown locales fall back to the two-form "n != 1" rule.
// Alternative sources (CLDR data, per-project configuration) plug in
// through the Source interface.
package plural

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Rule selects plural forms for one locale.
type Rule interface {
	// Forms returns the number of plural forms.
	Forms() int
	// Index returns the form index for count n, always in [0, Forms()).
	// Negative counts use their absolute value.
	Index(n int) int
}

// Source resolves the plural rule for a locale identifier such as
// "de" or "pt_BR.UTF-8".
type Source interface {
	Resolve(locale string) (Rule, error)
}

// HeaderSource is implemented by sources that can render the
// Plural-Forms header value for a locale.
type HeaderSource interface {
	FormsHeader(locale string) string
}

// Default is the built-in rule source.
var Default Source = defaultSource{}

type defaultSource struct{}

func (defaultSource) Resolve(locale string) (Rule, error) {
	return lookup(locale), nil
}

func (defaultSource) FormsHeader(locale string) string {
	return lookup(locale).header
}

// FormCount returns the plural form count for locale per Default.
func FormCount(locale string) int {
	return lookup(locale).forms
}

// FormIndex returns the plural form index of count n for locale per Default.
func FormIndex(locale string, n int) int {
	return lookup(locale).Index(n)
}

// FormsHeader returns the canonical Plural-Forms header value for
// locale per Default.
func FormsHeader(locale string) string {
	return lookup(locale).header
}

var npluralsPattern = regexp.MustCompile(`nplurals\s*=\s*(\d+)`)

// ParseNplurals extracts the form count from a Plural-Forms header
// value like "nplurals=2; plural=(n != 1);".
func ParseNplurals(header string) (int, bool) {
	m := npluralsPattern.FindStringSubmatch(header)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

type rule struct {
	forms  int
	header string
	index  func(n int) int
}

func (r rule) Forms() int { return r.forms }

func (r rule) Index(n int) int {
	if n < 0 {
		n = -n
	}
	return r.index(n)
}

var (
	ruleOne = rule{1, "nplurals=1; plural=0;",
		func(n int) int { return 0 }}

	ruleGermanic = rule{2, "nplurals=2; plural=(n != 1);",
		func(n int) int {
			if n != 1 {
				return 1
			}
			return 0
		}}

	ruleFrench = rule{2, "nplurals=2; plural=(n > 1);",
		func(n int) int {
			if n > 1 {
				return 1
			}
			return 0
		}}

	ruleSlavic = rule{3,
		"nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
		func(n int) int {
			switch {
			case n%10 == 1 && n%100 != 11:
				return 0
			case n%10 >= 2 && n%10 <= 4 && (n%100 < 10 || n%100 >= 20):
				return 1
			default:
				return 2
			}
		}}

	rulePolish = rule{3,
		"nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
		func(n int) int {
			switch {
			case n == 1:
				return 0
			case n%10 >= 2 && n%10 <= 4 && (n%100 < 10 || n%100 >= 20):
				return 1
			default:
				return 2
			}
		}}

	ruleCzech = rule{3, "nplurals=3; plural=(n==1 ? 0 : n>=2 && n<=4 ? 1 : 2);",
		func(n int) int {
			switch {
			case n == 1:
				return 0
			case n >= 2 && n <= 4:
				return 1
			default:
				return 2
			}
		}}

	ruleRomanian = rule{3,
		"nplurals=3; plural=(n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2);",
		func(n int) int {
			switch {
			case n == 1:
				return 0
			case n == 0 || (n%100 > 0 && n%100 < 20):
				return 1
			default:
				return 2
			}
		}}

	ruleLithuanian = rule{3,
		"nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2);",
		func(n int) int {
			switch {
			case n%10 == 1 && n%100 != 11:
				return 0
			case n%10 >= 2 && (n%100 < 10 || n%100 >= 20):
				return 1
			default:
				return 2
			}
		}}

	ruleLatvian = rule{3,
		"nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);",
		func(n int) int {
			switch {
			case n%10 == 1 && n%100 != 11:
				return 0
			case n != 0:
				return 1
			default:
				return 2
			}
		}}

	ruleIrish = rule{5,
		"nplurals=5; plural=(n==1 ? 0 : n==2 ? 1 : n<7 ? 2 : n<11 ? 3 : 4);",
		func(n int) int {
			switch {
			case n == 1:
				return 0
			case n == 2:
				return 1
			case n < 7:
				return 2
			case n < 11:
				return 3
			default:
				return 4
			}
		}}

	ruleArabic = rule{6,
		"nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);",
		func(n int) int {
			switch {
			case n == 0:
				return 0
			case n == 1:
				return 1
			case n == 2:
				return 2
			case n%100 >= 3 && n%100 <= 10:
				return 3
			case n%100 >= 11:
				return 4
			default:
				return 5
			}
		}}
)

var rulesByBase = map[string]rule{}

var rulesExact = map[string]rule{
	"pt_BR": ruleFrench,
}

func init() {
	families := []struct {
		rule  rule
		langs []string
	}{
		{ruleOne, []string{"ja", "ko", "zh", "vi", "th", "id", "ms"}},
		{ruleFrench, []string{"fr", "pt"}},
		{ruleGermanic, []string{
			"en", "de", "nl", "sv", "da", "no", "nb", "nn", "fi",
			"es", "it", "el", "he", "hu", "tr", "bg", "hi", "ur",
			"is", "fo", "ca", "eu",
		}},
		{ruleSlavic, []string{"ru", "uk", "be", "hr", "sr", "bs"}},
		{rulePolish, []string{"pl"}},
		{ruleCzech, []string{"cs", "sk"}},
		{ruleRomanian, []string{"ro"}},
		{ruleLithuanian, []string{"lt"}},
		{ruleLatvian, []string{"lv"}},
		{ruleIrish, []string{"ga"}},
		{ruleArabic, []string{"ar"}},
	}
	for _, f := range families {
		for _, lang := range f.langs {
			rulesByBase[lang] = f.rule
		}
	}
}

func lookup(locale string) rule {
	exact, base := normalize(locale)
	if r, ok := rulesExact[exact]; ok {
		return r
	}
	if r, ok := rulesByBase[base]; ok {
		return r
	}
	return ruleGermanic
}

// normalize reduces a locale identifier to an exact key and a base
// language: "pt_BR.UTF-8" becomes ("pt_BR", "pt"), "sr@latin" becomes
// ("sr", "sr").
func normalize(locale string) (exact, base string) {
	s := locale
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '@'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		parts := strings.FieldsFunc(s, func(r rune) bool {
			return r == '_' || r == '-'
		})
		if len(parts) == 0 {
			return "", ""
		}
		base = strings.ToLower(parts[0])
		exact = base
		if len(parts) > 1 {
			exact = base + "_" + strings.ToUpper(parts[1])
		}
		return exact, base
	}
	b, _ := tag.Base()
	base = b.String()
	exact = base
	if region, conf := tag.Region(); conf == language.Exact {
		exact = base + "_" + region.String()
	}
	return exact, base
}
