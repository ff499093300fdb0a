package cmd

import (
	"github.com/git-l10n/pomerge/plural"
	"github.com/git-l10n/pomerge/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type checkCommand struct {
	cmd *cobra.Command
}

func (v *checkCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "check <file>...",
		Short: "Check syntax of catalog files",
		Long: `Parse each catalog and report scanner, grammar and duplicate errors
with file and line positions. Catalogs declaring a non-UTF-8 charset
are converted before checking. Plural entries are checked against the
nplurals count declared by the Plural-Forms header.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	return v.cmd
}

func (v checkCommand) Execute(args []string) error {
	if len(args) == 0 {
		return NewErrorWithUsage("no argument for check command")
	}
	failed := 0
	for _, path := range args {
		if err := checkCatalog(path); err != nil {
			log.Errorf("%v", err)
			failed++
		}
	}
	if failed > 0 {
		return NewStandardErrorF("%d of %d files failed", failed, len(args))
	}
	return nil
}

func checkCatalog(path string) error {
	c, err := util.ReadCatalog(path)
	if err != nil {
		return err
	}
	nplurals, ok := plural.ParseNplurals(c.Header.Get("Plural-Forms"))
	for _, e := range c.Entries {
		if !ok || !e.HasPlural() || e.Obsolete {
			continue
		}
		for _, i := range e.PluralIndices() {
			if i >= nplurals {
				log.Warnf("%s:%d: msgstr[%d] exceeds nplurals=%d", path, e.Line, i, nplurals)
			}
		}
	}
	log.Infof("%s: %d entries checked", path, len(c.Entries))
	return nil
}

var checkCmd = checkCommand{}

func init() {
	rootCmd.AddCommand(checkCmd.Command())
}
