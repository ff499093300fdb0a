package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/git-l10n/pomerge/po"
)

const sampleSource = `msgid ""
msgstr ""
"Language: de\n"
"Content-Type: text/plain; charset=UTF-8\n"

#: cmd/root.go:12
msgid "Hello"
msgstr "Hallo"
`

func TestExist(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.po")
	if err := os.WriteFile(file, []byte("msgid \"a\"\nmsgstr \"b\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !Exist(dir) || !Exist(file) {
		t.Error("Exist = false for existing paths")
	}
	if Exist(filepath.Join(dir, "missing")) {
		t.Error("Exist = true for missing path")
	}
	if !IsFile(file) || IsFile(dir) {
		t.Error("IsFile misclassified path")
	}
	if !IsDir(dir) || IsDir(file) {
		t.Error("IsDir misclassified path")
	}
}

func TestReadCatalogPo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "de.po")
	if err := os.WriteFile(path, []byte(sampleSource), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := ReadCatalog(path)
	if err != nil {
		t.Fatalf("ReadCatalog: %v", err)
	}
	if got := c.Header.Get("Language"); got != "de" {
		t.Errorf("Language = %q, want %q", got, "de")
	}
	if len(c.Entries) != 1 || c.Entries[0].Str() != "Hallo" {
		t.Errorf("entries = %v, want one translated entry", c.Entries)
	}
}

func TestReadCatalogJSON(t *testing.T) {
	want, err := po.Parse([]byte(sampleSource))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "de.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := po.EncodeJSON(want, f); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadCatalog(path)
	if err != nil {
		t.Fatalf("ReadCatalog: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("catalog after JSON round trip differs:\n%s", po.Serialize(got))
	}
}

func TestReadCatalogMissing(t *testing.T) {
	if _, err := ReadCatalog(filepath.Join(t.TempDir(), "missing.po")); err == nil {
		t.Error("ReadCatalog returned nil error for missing file")
	}
}

func TestReadCatalogParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.po")
	if err := os.WriteFile(path, []byte("msgstr \"orphan\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := ReadCatalog(path)
	if err == nil {
		t.Fatal("ReadCatalog returned nil error for bad file")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestWriteCatalog(t *testing.T) {
	want, err := po.Parse([]byte(sampleSource))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.po")
	if err := WriteCatalog(path, want); err != nil {
		t.Fatalf("WriteCatalog: %v", err)
	}
	got, err := ReadCatalog(path)
	if err != nil {
		t.Fatalf("ReadCatalog: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("catalog after write round trip differs:\n%s", po.Serialize(got))
	}
}
