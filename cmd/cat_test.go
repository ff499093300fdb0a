package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/git-l10n/pomerge/po"
	"github.com/git-l10n/pomerge/util"
)

func mustParse(t *testing.T, src string) *po.Catalog {
	t.Helper()
	c, err := po.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return c
}

func writeCatalogFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const catFirstSource = `msgid ""
msgstr ""
"Language: de\n"

msgid "Hello"
msgstr "Hallo"

#~ msgid "Old"
#~ msgstr "Alt"
`

const catSecondSource = `msgid ""
msgstr ""
"Language: fr\n"

msgid "Hello"
msgstr "Bonjour"

msgid "World"
msgstr "Monde"

msgid "Old"
msgstr "Vieux"

#, fuzzy
msgid "Draft"
msgstr "Entwurf"
`

func TestConcatCatalogs(t *testing.T) {
	first := mustParse(t, catFirstSource)
	second := mustParse(t, catSecondSource)

	merged := concatCatalogs([]*po.Catalog{first, second})
	if got := merged.Header.Get("Language"); got != "de" {
		t.Errorf("header Language = %q, want %q from the first catalog", got, "de")
	}
	if len(merged.Entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(merged.Entries))
	}
	// The duplicate "Hello" from the second catalog is dropped, the
	// live "Old" survives next to the obsolete one.
	if got := merged.Entries[0].Str(); got != "Hallo" {
		t.Errorf("Hello = %q, want %q (first occurrence wins)", got, "Hallo")
	}
	var liveOld, obsoleteOld string
	for _, e := range merged.Entries {
		if e.ID() != "Old" {
			continue
		}
		if e.Obsolete {
			obsoleteOld = e.Str()
		} else {
			liveOld = e.Str()
		}
	}
	if liveOld != "Vieux" || obsoleteOld != "Alt" {
		t.Errorf("Old live=%q obsolete=%q, want Vieux and Alt", liveOld, obsoleteOld)
	}
}

func TestConcatCatalogsClones(t *testing.T) {
	first := mustParse(t, catFirstSource)
	merged := concatCatalogs([]*po.Catalog{first})
	merged.Entries[0].MsgStr = []string{"changed"}
	if got := first.Entries[0].Str(); got != "Hallo" {
		t.Errorf("source catalog changed to %q, want untouched %q", got, "Hallo")
	}
}

func TestBuildFilter(t *testing.T) {
	var c catCommand
	f, err := c.buildFilter()
	if err != nil {
		t.Fatalf("buildFilter failed: %v", err)
	}
	if want := (po.StateFilter{WithObsolete: true}); f != want {
		t.Errorf("default filter = %+v, want %+v", f, want)
	}

	c = catCommand{}
	c.O.NoObsolete = true
	c.O.Fuzzy = true
	f, err = c.buildFilter()
	if err != nil {
		t.Fatalf("buildFilter failed: %v", err)
	}
	if want := (po.StateFilter{Fuzzy: true, NoObsolete: true}); f != want {
		t.Errorf("filter = %+v, want %+v", f, want)
	}

	for _, tc := range []struct {
		name string
		set  func(*catCommand)
	}{
		{"only-same and only-obsolete", func(c *catCommand) {
			c.O.OnlySame = true
			c.O.OnlyObsolete = true
		}},
		{"only-same and translated", func(c *catCommand) {
			c.O.OnlySame = true
			c.O.Translated = true
		}},
		{"only-obsolete and fuzzy", func(c *catCommand) {
			c.O.OnlyObsolete = true
			c.O.Fuzzy = true
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var c catCommand
			tc.set(&c)
			if _, err := c.buildFilter(); err == nil {
				t.Fatal("expected mutual exclusion error")
			} else if !strings.Contains(err.Error(), "mutually exclusive") {
				t.Errorf("expected 'mutually exclusive' in error, got: %v", err)
			}
		})
	}
}

func TestClearTranslation(t *testing.T) {
	e := &po.Entry{
		MsgID:  []string{"Hello"},
		MsgStr: []string{"Hal", "lo"},
	}
	clearTranslation(e)
	if got := e.Str(); got != "" {
		t.Errorf("msgstr = %q, want empty", got)
	}

	p := &po.Entry{
		MsgID:       []string{"file"},
		MsgIDPlural: []string{"files"},
		MsgStrPlural: map[int][]string{
			0: {"Datei"},
			1: {"Dateien"},
		},
	}
	clearTranslation(p)
	for _, i := range p.PluralIndices() {
		if got := p.StrPlural(i); got != "" {
			t.Errorf("msgstr[%d] = %q, want empty", i, got)
		}
	}
	if got := p.IDPlural(); got != "files" {
		t.Errorf("msgid_plural = %q, want kept", got)
	}
}

func TestCatExecute(t *testing.T) {
	dir := t.TempDir()
	f1 := writeCatalogFile(t, dir, "a.po", catFirstSource)
	f2 := writeCatalogFile(t, dir, "b.po", catSecondSource)

	t.Run("no args", func(t *testing.T) {
		c := catCommand{}
		err := c.Execute(nil)
		if err == nil || !strings.Contains(err.Error(), "at least one input file") {
			t.Errorf("expected input file error, got: %v", err)
		}
	})

	t.Run("unset and clear fuzzy", func(t *testing.T) {
		c := catCommand{}
		c.O.UnsetFuzzy = true
		c.O.ClearFuzzy = true
		err := c.Execute([]string{f1})
		if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
			t.Errorf("expected mutual exclusion error, got: %v", err)
		}
	})

	t.Run("concat to file", func(t *testing.T) {
		out := filepath.Join(dir, "out.po")
		c := catCommand{}
		c.O.Output = out
		if err := c.Execute([]string{f1, f2}); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		merged, err := util.ReadCatalog(out)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if len(merged.Entries) != 5 {
			t.Fatalf("got %d entries, want 5", len(merged.Entries))
		}
	})

	t.Run("no obsolete", func(t *testing.T) {
		out := filepath.Join(dir, "live.po")
		c := catCommand{}
		c.O.Output = out
		c.O.NoObsolete = true
		if err := c.Execute([]string{f1, f2}); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		merged, err := util.ReadCatalog(out)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		for _, e := range merged.Entries {
			if e.Obsolete {
				t.Errorf("obsolete entry %q in output", e.ID())
			}
		}
	})

	t.Run("clear fuzzy", func(t *testing.T) {
		out := filepath.Join(dir, "cleared.po")
		c := catCommand{}
		c.O.Output = out
		c.O.ClearFuzzy = true
		if err := c.Execute([]string{f2}); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		merged, err := util.ReadCatalog(out)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		for _, e := range merged.Entries {
			if e.ID() != "Draft" {
				continue
			}
			if e.IsFuzzy() {
				t.Error("Draft still fuzzy after --clear-fuzzy")
			}
			if got := e.Str(); got != "" {
				t.Errorf("Draft msgstr = %q, want cleared", got)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		out := filepath.Join(dir, "out.json")
		c := catCommand{}
		c.O.Output = out
		c.O.JSON = true
		if err := c.Execute([]string{f1}); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		merged, err := util.ReadCatalog(out)
		if err != nil {
			t.Fatalf("read JSON output: %v", err)
		}
		if len(merged.Entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(merged.Entries))
		}
		if got := merged.Header.Get("Language"); got != "de" {
			t.Errorf("header Language = %q, want de", got)
		}
	})
}
