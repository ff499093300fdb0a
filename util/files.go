// Package util provides file and encoding glue for catalog commands.
package util

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/git-l10n/pomerge/po"
)

// PoDir is the catalog directory under the project root.
const PoDir = "po"

// Exist check if path is exist.
func Exist(name string) bool {
	if _, err := os.Stat(name); err == nil {
		return true
	}
	return false
}

// IsFile returns true if path is exist and is a file.
func IsFile(name string) bool {
	fi, err := os.Stat(name)
	if err != nil || fi.IsDir() {
		return false
	}
	return true
}

// IsDir returns true if path is exist and is a directory.
func IsDir(name string) bool {
	fi, err := os.Stat(name)
	if err != nil || !fi.IsDir() {
		return false
	}
	return true
}

// ReadCatalog reads and parses a catalog file. A ".json" file, or a
// file whose content starts with "{", is decoded from the JSON
// interchange format; PO bytes declared in a non-UTF-8 charset are
// converted before parsing.
func ReadCatalog(path string) (*po.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if strings.HasSuffix(path, ".json") || (len(trimmed) > 0 && trimmed[0] == '{') {
		c, err := po.DecodeJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return c, nil
	}
	data, err = CatalogToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c, err := po.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// WriteCatalog serializes c to path, or to stdout when path is empty
// or "-".
func WriteCatalog(path string, c *po.Catalog) error {
	data := po.Serialize(c)
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
