package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/git-l10n/pomerge/flag"
	"github.com/git-l10n/pomerge/po"
	"github.com/git-l10n/pomerge/util"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

type statCommand struct {
	cmd *cobra.Command
}

func (v *statCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "stat <file>...",
		Short: "Report entry statistics for catalog files",
		Long: `Report entry statistics for a catalog:
  translated   - entries with non-empty translation
  untranslated - entries with empty msgstr
  same         - entries where msgstr equals msgid (suspect untranslated)
  fuzzy        - entries with fuzzy flag
  obsolete     - obsolete entries (#~ format)

JSON catalogs are scanned in place without decoding the whole file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	return v.cmd
}

func (v statCommand) Execute(args []string) error {
	if len(args) == 0 {
		return NewErrorWithUsage("no argument for stat command")
	}
	for _, path := range args {
		stats, err := statFile(path)
		if err != nil {
			return err
		}
		if flag.Verbose() > 0 {
			title := fmt.Sprintf("catalog: %s", path)
			fmt.Println(title)
			fmt.Println(strings.Repeat("-", len(title)))
			fmt.Printf("  translated:   %d\n", stats.Translated)
			fmt.Printf("  untranslated: %d\n", stats.Untranslated)
			fmt.Printf("  same:         %d\n", stats.Same)
			fmt.Printf("  fuzzy:        %d\n", stats.Fuzzy)
			fmt.Printf("  obsolete:     %d\n", stats.Obsolete)
		} else if len(args) > 1 {
			fmt.Printf("%s: %s", path, po.FormatStatLine(stats))
		} else {
			fmt.Print(po.FormatStatLine(stats))
		}
	}
	return nil
}

// statFile counts entry states of one catalog file. JSON catalogs take
// a fast path that scans the entries array without building a Catalog.
func statFile(path string) (*po.Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".json") ||
		bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("{")) {
		stats, err := statFromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return stats, nil
	}
	data, err = util.CatalogToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c, err := po.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return po.CountStats(c), nil
}

// statFromJSON tallies entry states from the JSON interchange form.
// The buckets match po.CountStats: obsolete and fuzzy first, then
// untranslated, same and translated.
func statFromJSON(data []byte) (*po.Stats, error) {
	entries := gjson.GetBytes(data, "entries")
	if !entries.Exists() || !entries.IsArray() {
		return nil, fmt.Errorf("no entries array in catalog JSON")
	}
	stats := &po.Stats{}
	for _, r := range entries.Array() {
		msgid := r.Get("msgid").String()
		msgstr := r.Get("msgstr").String()
		translated := msgstr != ""
		same := msgstr == msgid
		if forms := r.Get("msgstr_plural"); forms.Exists() {
			translated = false
			for _, f := range forms.Array() {
				if f.String() != "" {
					translated = true
					break
				}
			}
			same = r.Get("msgstr_plural.0").String() == msgid
		}
		fuzzy := false
		for _, f := range r.Get("flags").Array() {
			if f.String() == "fuzzy" {
				fuzzy = true
				break
			}
		}
		switch {
		case r.Get("obsolete").Bool():
			stats.Obsolete++
		case fuzzy:
			stats.Fuzzy++
		case !translated:
			stats.Untranslated++
		case same:
			stats.Same++
		default:
			stats.Translated++
		}
	}
	return stats, nil
}

var statCmd = statCommand{}

func init() {
	rootCmd.AddCommand(statCmd.Command())
}
