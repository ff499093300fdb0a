package merge

import (
	"fmt"
	"math"

	"github.com/git-l10n/pomerge/plural"
)

// ObsoletePolicy decides the fate of old entries that no longer appear
// in the template.
type ObsoletePolicy string

const (
	// MarkAsObsolete keeps dropped entries, marked with #~.
	MarkAsObsolete ObsoletePolicy = "mark-as-obsolete"
	// Delete removes dropped entries from the merged catalog.
	Delete ObsoletePolicy = "delete"
)

// DefaultFuzzyThreshold is the similarity floor for fuzzy matches.
const DefaultFuzzyThreshold = 0.8

// PolicyError reports an invalid merge policy setting. It is raised
// during validation, before any merging starts.
type PolicyError struct {
	Field  string
	Reason string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("invalid merge policy: %s: %s", e.Field, e.Reason)
}

// Policy configures one merge run.
type Policy struct {
	// Locale of the catalog being updated, e.g. "de" or "pt_BR".
	// Used to size plural blocks and to force-write the Language
	// header. When empty, the Language field of the old (then the
	// template) header is consulted instead.
	Locale string

	// OnObsolete selects what happens to entries missing from the
	// template.
	OnObsolete ObsoletePolicy

	// FuzzyThreshold is the minimum similarity in [0, 1] for pairing
	// a dropped msgid with a new one.
	FuzzyThreshold float64

	// StorePrevious records the replaced msgid as a #| snapshot on
	// fuzzy-matched entries.
	StorePrevious bool

	// PluralForms overrides the derived Plural-Forms header value.
	PluralForms string

	// Rules resolves plural rules. Nil means plural.Default.
	Rules plural.Source
}

// DefaultPolicy returns the policy used when nothing is configured:
// keep obsolete entries, fuzzy-match at 0.8, record previous msgids.
func DefaultPolicy(locale string) Policy {
	return Policy{
		Locale:         locale,
		OnObsolete:     MarkAsObsolete,
		FuzzyThreshold: DefaultFuzzyThreshold,
		StorePrevious:  true,
	}
}

// Validate checks the policy. It returns a *PolicyError describing
// the first offending field.
func (p *Policy) Validate() error {
	switch p.OnObsolete {
	case MarkAsObsolete, Delete:
	default:
		return &PolicyError{
			Field:  "on_obsolete",
			Reason: fmt.Sprintf("unknown value %q, want %q or %q", p.OnObsolete, MarkAsObsolete, Delete),
		}
	}
	if math.IsNaN(p.FuzzyThreshold) || p.FuzzyThreshold < 0 || p.FuzzyThreshold > 1 {
		return &PolicyError{
			Field:  "fuzzy_threshold",
			Reason: fmt.Sprintf("%v is outside [0, 1]", p.FuzzyThreshold),
		}
	}
	if p.PluralForms != "" {
		if _, ok := plural.ParseNplurals(p.PluralForms); !ok {
			return &PolicyError{
				Field:  "plural_forms",
				Reason: fmt.Sprintf("cannot find nplurals in %q", p.PluralForms),
			}
		}
	}
	return nil
}

func (p *Policy) rules() plural.Source {
	if p.Rules != nil {
		return p.Rules
	}
	return plural.Default
}

// resolveForms returns the plural form count and the Plural-Forms
// header value for locale, honoring the PluralForms override.
func (p *Policy) resolveForms(locale string) (int, string, error) {
	if p.PluralForms != "" {
		n, _ := plural.ParseNplurals(p.PluralForms)
		return n, p.PluralForms, nil
	}
	src := p.rules()
	rule, err := src.Resolve(locale)
	if err != nil {
		return 0, "", fmt.Errorf("resolve plural rule for %q: %w", locale, err)
	}
	header := plural.FormsHeader(locale)
	if hs, ok := src.(plural.HeaderSource); ok {
		header = hs.FormsHeader(locale)
	}
	return rule.Forms(), header, nil
}
