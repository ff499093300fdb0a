// Package config loads merge policy defaults from .pomerge.yaml files.
//
// Two layers are consulted: the file in the user home directory as the
// base, and the file at the project root overriding it. Command line
// flags override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/git-l10n/pomerge/merge"
	"github.com/git-l10n/pomerge/plural"
)

// FileName is the policy file name looked up in the project root and
// the user home directory.
const FileName = ".pomerge.yaml"

// File is the on-disk shape of a policy file. Pointer fields
// distinguish absent from zero.
type File struct {
	Locale         string            `yaml:"locale"`
	OnObsolete     string            `yaml:"on_obsolete"`
	FuzzyThreshold *float64          `yaml:"fuzzy_threshold"`
	StorePrevious  *bool             `yaml:"store_previous"`
	PluralForms    map[string]string `yaml:"plural_forms"`
}

// Load reads the layered configuration. root is the project root, or
// empty to skip the project layer. A missing file is not an error.
func Load(root string) (*File, error) {
	merged := &File{}
	if home, err := os.UserHomeDir(); err == nil {
		f, err := loadFile(filepath.Join(home, FileName))
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if f != nil {
			merged = mergeFiles(merged, f)
		}
	}
	if root != "" {
		f, err := loadFile(filepath.Join(root, FileName))
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if f != nil {
			merged = mergeFiles(merged, f)
		}
	}
	return merged, nil
}

// LoadPath reads a single configuration file, bypassing the layered
// lookup.
func LoadPath(path string) (*File, error) {
	return loadFile(path)
}

func loadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// mergeFiles overlays over on base, field by field. Map entries merge
// per key with over winning.
func mergeFiles(base, over *File) *File {
	merged := *base
	if over.Locale != "" {
		merged.Locale = over.Locale
	}
	if over.OnObsolete != "" {
		merged.OnObsolete = over.OnObsolete
	}
	if over.FuzzyThreshold != nil {
		merged.FuzzyThreshold = over.FuzzyThreshold
	}
	if over.StorePrevious != nil {
		merged.StorePrevious = over.StorePrevious
	}
	if len(over.PluralForms) > 0 {
		forms := make(map[string]string, len(base.PluralForms)+len(over.PluralForms))
		for k, v := range base.PluralForms {
			forms[k] = v
		}
		for k, v := range over.PluralForms {
			forms[k] = v
		}
		merged.PluralForms = forms
	}
	return &merged
}

// Policy builds the merge policy for locale, starting from
// merge.DefaultPolicy and applying the file's settings. An empty
// locale falls back to the file's locale.
func (f *File) Policy(locale string) merge.Policy {
	if locale == "" {
		locale = f.Locale
	}
	p := merge.DefaultPolicy(locale)
	if f.OnObsolete != "" {
		p.OnObsolete = merge.ObsoletePolicy(f.OnObsolete)
	}
	if f.FuzzyThreshold != nil {
		p.FuzzyThreshold = *f.FuzzyThreshold
	}
	if f.StorePrevious != nil {
		p.StorePrevious = *f.StorePrevious
	}
	if forms, ok := f.PluralForms[p.Locale]; ok {
		p.PluralForms = forms
	}
	return p
}

// Validate reports the first invalid setting.
func (f *File) Validate() error {
	p := f.Policy(f.Locale)
	if err := p.Validate(); err != nil {
		return err
	}
	for locale, forms := range f.PluralForms {
		if _, ok := plural.ParseNplurals(forms); !ok {
			return fmt.Errorf("plural_forms[%s]: cannot find nplurals in %q", locale, forms)
		}
	}
	return nil
}
