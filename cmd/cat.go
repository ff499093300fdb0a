package cmd

import (
	"io"
	"os"

	"github.com/git-l10n/pomerge/po"
	"github.com/git-l10n/pomerge/util"
	"github.com/spf13/cobra"
)

type catCommand struct {
	cmd *cobra.Command
	O   struct {
		Output       string
		JSON         bool
		Translated   bool
		Untranslated bool
		Fuzzy        bool
		WithObsolete bool
		NoObsolete   bool
		OnlySame     bool
		OnlyObsolete bool
		UnsetFuzzy   bool
		ClearFuzzy   bool
	}
}

func (v *catCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "cat -o <output> [--json] <inputfile>...",
		Short: "Concatenate and filter PO/JSON catalogs",
		Long: `Merge one or more catalog files (PO or gettext JSON) into a single output.
Input format is auto-detected by content (starts with '{') or by the .json
extension. For duplicate msgid (qualified by msgctxt), the first occurrence
by file order is kept.

By default, all entries are selected (translated, same, untranslated, fuzzy,
obsolete). Use --translated, --untranslated, --fuzzy to filter by state (OR
relationship). Use --no-obsolete to exclude obsolete; --only-same or
--only-obsolete for a single state.

Write result to the file given by -o; use -o - or omit -o to write to stdout.
Use --json to output gettext JSON; otherwise output is PO format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	fs := v.cmd.Flags()
	fs.SortFlags = false

	// General options
	fs.StringVarP(&v.O.Output, "output", "o", "",
		"write output to file (use - for stdout); default is stdout")
	fs.BoolVar(&v.O.JSON, "json", false, "output JSON instead of PO text")
	fs.SetAnnotation("output", "group", []string{"General options"})
	fs.SetAnnotation("json", "group", []string{"General options"})

	// State filter: translated, untranslated, fuzzy (OR when combined)
	fs.BoolVar(&v.O.Translated, "translated", false, "select translated entries")
	fs.BoolVar(&v.O.Untranslated, "untranslated", false, "select untranslated entries")
	fs.BoolVar(&v.O.Fuzzy, "fuzzy", false, "select fuzzy entries")
	fs.SetAnnotation("translated", "group", []string{"State filter"})
	fs.SetAnnotation("untranslated", "group", []string{"State filter"})
	fs.SetAnnotation("fuzzy", "group", []string{"State filter"})

	// Obsolete handling: include or exclude
	fs.BoolVar(&v.O.WithObsolete, "with-obsolete", false, "include obsolete entries (default)")
	fs.BoolVar(&v.O.NoObsolete, "no-obsolete", false, "exclude obsolete entries")
	fs.SetAnnotation("with-obsolete", "group", []string{"Obsolete handling"})
	fs.SetAnnotation("no-obsolete", "group", []string{"Obsolete handling"})

	// Single-state filter: mutually exclusive with state filter above
	fs.BoolVar(&v.O.OnlySame, "only-same", false, "only entries where msgstr equals msgid")
	fs.BoolVar(&v.O.OnlyObsolete, "only-obsolete", false, "only obsolete entries")
	fs.SetAnnotation("only-same", "group", []string{"Single-state filter"})
	fs.SetAnnotation("only-obsolete", "group", []string{"Single-state filter"})

	// Others
	fs.BoolVar(&v.O.UnsetFuzzy, "unset-fuzzy", false,
		"remove fuzzy marker from fuzzy entries in output (keep translations)")
	fs.BoolVar(&v.O.ClearFuzzy, "clear-fuzzy", false,
		"remove fuzzy marker and clear msgstr for fuzzy entries (msgid/msgid_plural preserved)")
	fs.SetAnnotation("unset-fuzzy", "group", []string{"Others"})
	fs.SetAnnotation("clear-fuzzy", "group", []string{"Others"})

	// Custom usage template with grouped flags
	v.cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{flagUsagesByGroup . | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)

	return v.cmd
}

func (v catCommand) Execute(args []string) error {
	if len(args) == 0 {
		return NewErrorWithUsage("cat requires at least one input file")
	}
	if v.O.UnsetFuzzy && v.O.ClearFuzzy {
		return NewErrorWithUsage("--unset-fuzzy and --clear-fuzzy are mutually exclusive")
	}
	filter, err := v.buildFilter()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if v.O.Output != "" && v.O.Output != "-" {
		f, err := os.Create(v.O.Output)
		if err != nil {
			return NewStandardErrorF("failed to create output file %s: %v", v.O.Output, err)
		}
		defer f.Close()
		w = f
	}

	sources := make([]*po.Catalog, 0, len(args))
	for _, path := range args {
		c, err := util.ReadCatalog(path)
		if err != nil {
			return NewStandardErrorF("%v", err)
		}
		sources = append(sources, c)
	}
	merged := concatCatalogs(sources)

	merged.Entries = po.Filter(merged.Entries, filter)

	if v.O.UnsetFuzzy || v.O.ClearFuzzy {
		for _, e := range merged.Entries {
			if !e.IsFuzzy() {
				continue
			}
			e.RemoveFlag("fuzzy")
			if v.O.ClearFuzzy {
				clearTranslation(e)
			}
		}
	}

	if v.O.JSON {
		return po.EncodeJSON(merged, w)
	}
	_, err = w.Write(po.Serialize(merged))
	return err
}

func (v catCommand) buildFilter() (po.StateFilter, error) {
	if v.O.OnlySame && v.O.OnlyObsolete {
		return po.StateFilter{}, NewErrorWithUsage("--only-same and --only-obsolete are mutually exclusive")
	}
	if v.O.OnlySame && (v.O.Translated || v.O.Untranslated || v.O.Fuzzy) {
		return po.StateFilter{}, NewErrorWithUsage("--only-same is mutually exclusive with --translated, --untranslated, --fuzzy")
	}
	if v.O.OnlyObsolete && (v.O.Translated || v.O.Untranslated || v.O.Fuzzy) {
		return po.StateFilter{}, NewErrorWithUsage("--only-obsolete is mutually exclusive with --translated, --untranslated, --fuzzy")
	}
	return po.StateFilter{
		Translated:   v.O.Translated,
		Untranslated: v.O.Untranslated,
		Fuzzy:        v.O.Fuzzy,
		WithObsolete: !v.O.NoObsolete,
		NoObsolete:   v.O.NoObsolete,
		OnlySame:     v.O.OnlySame,
		OnlyObsolete: v.O.OnlyObsolete,
	}, nil
}

// concatCatalogs merges catalogs in order. The first catalog provides
// the header and top comments; the first entry for a key wins, with
// live and obsolete entries deduplicated separately.
func concatCatalogs(sources []*po.Catalog) *po.Catalog {
	merged := &po.Catalog{}
	if len(sources) > 0 {
		merged.TopComments = append(merged.TopComments, sources[0].TopComments...)
		merged.Header = sources[0].Header.Clone()
	}
	live := make(map[string]bool)
	obsolete := make(map[string]bool)
	for _, c := range sources {
		for _, e := range c.Entries {
			seen := live
			if e.Obsolete {
				seen = obsolete
			}
			if seen[e.Key()] {
				continue
			}
			seen[e.Key()] = true
			merged.Entries = append(merged.Entries, e.Clone())
		}
	}
	return merged
}

// clearTranslation empties every msgstr of e, keeping its shape.
func clearTranslation(e *po.Entry) {
	if e.HasPlural() {
		for i := range e.MsgStrPlural {
			e.MsgStrPlural[i] = []string{""}
		}
		return
	}
	e.MsgStr = []string{""}
}

var catCmd = catCommand{}

func init() {
	rootCmd.AddCommand(catCmd.Command())
}
