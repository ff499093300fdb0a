package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/git-l10n/pomerge/merge"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFileMissing(t *testing.T) {
	f, err := loadFile(filepath.Join(t.TempDir(), FileName))
	if err == nil {
		t.Fatal("loadFile returned nil error for missing file")
	}
	if !os.IsNotExist(err) {
		t.Fatalf("loadFile error = %v, want not-exist", err)
	}
	if f != nil {
		t.Fatal("loadFile returned non-nil config for missing file")
	}
}

func TestLoadFileValid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, `locale: de
on_obsolete: delete
fuzzy_threshold: 0.6
store_previous: false
plural_forms:
  sl: "nplurals=4; plural=(n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3);"
`)
	f, err := loadFile(path)
	if err != nil {
		t.Fatalf("loadFile: %v", err)
	}
	if f.Locale != "de" {
		t.Errorf("Locale = %q, want %q", f.Locale, "de")
	}
	if f.OnObsolete != "delete" {
		t.Errorf("OnObsolete = %q, want %q", f.OnObsolete, "delete")
	}
	if f.FuzzyThreshold == nil || *f.FuzzyThreshold != 0.6 {
		t.Errorf("FuzzyThreshold = %v, want 0.6", f.FuzzyThreshold)
	}
	if f.StorePrevious == nil || *f.StorePrevious {
		t.Errorf("StorePrevious = %v, want false", f.StorePrevious)
	}
	if _, ok := f.PluralForms["sl"]; !ok {
		t.Errorf("PluralForms = %v, want sl entry", f.PluralForms)
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, "locale: [unclosed\n")
	f, err := loadFile(path)
	if err == nil {
		t.Fatal("loadFile returned nil error for invalid YAML")
	}
	if f != nil {
		t.Fatal("loadFile returned non-nil config for invalid YAML")
	}
}

func TestMergeFiles(t *testing.T) {
	threshold := 0.5
	storePrev := false
	base := &File{
		Locale:         "de",
		OnObsolete:     "mark-as-obsolete",
		FuzzyThreshold: &threshold,
		PluralForms: map[string]string{
			"sl": "nplurals=4; plural=0;",
			"xx": "nplurals=2; plural=(n != 1);",
		},
	}
	over := &File{
		Locale:        "fr",
		StorePrevious: &storePrev,
		PluralForms: map[string]string{
			"xx": "nplurals=3; plural=0;",
		},
	}
	merged := mergeFiles(base, over)
	if merged.Locale != "fr" {
		t.Errorf("Locale = %q, want %q", merged.Locale, "fr")
	}
	if merged.OnObsolete != "mark-as-obsolete" {
		t.Errorf("OnObsolete = %q, want base value kept", merged.OnObsolete)
	}
	if merged.FuzzyThreshold == nil || *merged.FuzzyThreshold != 0.5 {
		t.Errorf("FuzzyThreshold = %v, want base 0.5 kept", merged.FuzzyThreshold)
	}
	if merged.StorePrevious == nil || *merged.StorePrevious {
		t.Errorf("StorePrevious = %v, want false from overlay", merged.StorePrevious)
	}
	if merged.PluralForms["sl"] != "nplurals=4; plural=0;" {
		t.Errorf("PluralForms[sl] = %q, want base entry kept", merged.PluralForms["sl"])
	}
	if merged.PluralForms["xx"] != "nplurals=3; plural=0;" {
		t.Errorf("PluralForms[xx] = %q, want overlay entry", merged.PluralForms["xx"])
	}
}

func TestLoadTwoLayers(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, home, FileName, "locale: de\nfuzzy_threshold: 0.5\n")
	writeFile(t, root, FileName, "locale: fr\n")

	f, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Locale != "fr" {
		t.Errorf("Locale = %q, want project value %q", f.Locale, "fr")
	}
	if f.FuzzyThreshold == nil || *f.FuzzyThreshold != 0.5 {
		t.Errorf("FuzzyThreshold = %v, want home value 0.5", f.FuzzyThreshold)
	}
}

func TestLoadNoFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	f, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Locale != "" || f.OnObsolete != "" || f.FuzzyThreshold != nil ||
		f.StorePrevious != nil || len(f.PluralForms) != 0 {
		t.Errorf("Load = %+v, want zero value", f)
	}
}

func TestPolicy(t *testing.T) {
	threshold := 0.6
	storePrev := false
	f := &File{
		Locale:         "de",
		OnObsolete:     "delete",
		FuzzyThreshold: &threshold,
		StorePrevious:  &storePrev,
		PluralForms: map[string]string{
			"sl": "nplurals=4; plural=0;",
		},
	}

	p := f.Policy("")
	if p.Locale != "de" {
		t.Errorf("Locale = %q, want file value %q", p.Locale, "de")
	}
	if p.OnObsolete != merge.Delete {
		t.Errorf("OnObsolete = %q, want %q", p.OnObsolete, merge.Delete)
	}
	if p.FuzzyThreshold != 0.6 {
		t.Errorf("FuzzyThreshold = %v, want 0.6", p.FuzzyThreshold)
	}
	if p.StorePrevious {
		t.Error("StorePrevious = true, want false")
	}
	if p.PluralForms != "" {
		t.Errorf("PluralForms = %q, want empty for de", p.PluralForms)
	}

	p = f.Policy("sl")
	if p.Locale != "sl" {
		t.Errorf("Locale = %q, want argument %q", p.Locale, "sl")
	}
	if p.PluralForms != "nplurals=4; plural=0;" {
		t.Errorf("PluralForms = %q, want sl override", p.PluralForms)
	}

	p = (&File{}).Policy("ru")
	want := merge.DefaultPolicy("ru")
	if p != want {
		t.Errorf("Policy from empty file = %+v, want defaults %+v", p, want)
	}
}

func TestValidate(t *testing.T) {
	if err := (&File{}).Validate(); err != nil {
		t.Errorf("empty file Validate: %v", err)
	}
	bad := 1.5
	if err := (&File{FuzzyThreshold: &bad}).Validate(); err == nil {
		t.Error("Validate accepted fuzzy_threshold above 1")
	}
	if err := (&File{OnObsolete: "purge"}).Validate(); err == nil {
		t.Error("Validate accepted unknown on_obsolete")
	}
	if err := (&File{PluralForms: map[string]string{"xx": "plural=0;"}}).Validate(); err == nil {
		t.Error("Validate accepted plural_forms without nplurals")
	}
}
