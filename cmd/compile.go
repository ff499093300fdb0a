package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/git-l10n/pomerge/flag"
	"github.com/git-l10n/pomerge/lookup"
	"github.com/git-l10n/pomerge/plural"
	"github.com/git-l10n/pomerge/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type compileCommand struct {
	cmd *cobra.Command
	O   struct {
		Output string
		Locale string
		Domain string
	}
}

func (v *compileCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "compile <file>...",
		Short: "Compile catalogs into a lookup snapshot",
		Long: `Build a runtime lookup store from PO, JSON or MO catalogs and write
it out as a snapshot file. Loading the snapshot back restores the
store without re-parsing the catalogs.

The locale of each catalog is taken from its file name (de.po loads
as "de") unless --locale is given. Fuzzy, obsolete and untranslated
entries are not compiled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	v.cmd.Flags().StringVarP(&v.O.Output, "output", "o",
		"messages.bin",
		"write the snapshot to this file")
	v.cmd.Flags().StringVar(&v.O.Locale, "locale", "",
		"load all catalogs under this locale instead of deriving it from file names")
	v.cmd.Flags().StringVar(&v.O.Domain, "domain",
		lookup.DefaultDomain,
		"text domain to file the catalogs under")

	return v.cmd
}

func (v compileCommand) Execute(args []string) error {
	if len(args) == 0 {
		return NewErrorWithUsage("no argument for compile command")
	}
	store := lookup.New(plural.Default)
	total := 0
	for _, path := range args {
		locale := v.O.Locale
		if locale == "" {
			locale = catalogLocale(path)
		}
		n, err := compileFile(store, locale, v.O.Domain, path)
		if err != nil {
			return err
		}
		log.Debugf("compiled %s: %d messages for locale %q", path, n, locale)
		total += n
	}
	data, err := store.Snapshot()
	if err != nil {
		return err
	}
	if flag.DryRun() {
		log.Infof("dryrun: not writing %s", v.O.Output)
		return nil
	}
	if err := os.WriteFile(v.O.Output, data, 0644); err != nil {
		return err
	}
	log.Infof("%s: %d messages, locales: %s",
		v.O.Output, total, strings.Join(store.Locales(), " "))
	return nil
}

func compileFile(store *lookup.Translations, locale, dom, path string) (int, error) {
	if strings.HasSuffix(path, ".mo") {
		f, err := os.Open(path)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		n, err := store.AddMO(locale, dom, f)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		return n, nil
	}
	c, err := util.ReadCatalog(path)
	if err != nil {
		return 0, err
	}
	n, err := store.Add(locale, dom, c)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// catalogLocale derives the locale from a catalog file name, so
// po/zh_CN.po compiles under "zh_CN".
func catalogLocale(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

var compileCmd = compileCommand{}

func init() {
	rootCmd.AddCommand(compileCmd.Command())
}
