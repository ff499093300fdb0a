package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/git-l10n/pomerge/config"
	"github.com/git-l10n/pomerge/flag"
	"github.com/git-l10n/pomerge/merge"
	"github.com/git-l10n/pomerge/repository"
	"github.com/git-l10n/pomerge/util"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type mergeCommand struct {
	cmd *cobra.Command
	O   struct {
		Output         string
		Locale         string
		FuzzyThreshold float64
		OnObsolete     string
		Previous       bool
		PluralForms    string
	}
}

func (v *mergeCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "merge [-o <output>] <old.po> <template>",
		Short: "Merge a translated catalog with a newer template",
		Long: `Merge the translations of <old.po> into the entry set of <template>.

Entries present in both keep their translation. Template entries without
an exact match borrow the translation of the most similar old entry and
are marked fuzzy when the similarity reaches the threshold. Old entries
missing from the template are marked obsolete (or dropped with
--on-obsolete=delete).

Policy defaults are read from ` + config.FileName + ` in the project root
and the user home directory; command line flags override them.

Write result to the file given by -o; use -o - or omit -o to write to
stdout (the change summary then goes to stderr).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	fs := v.cmd.Flags()
	fs.SortFlags = false
	fs.StringVarP(&v.O.Output, "output", "o", "",
		"write merged catalog to file (use - for stdout); default is stdout")
	fs.StringVar(&v.O.Locale, "locale", "",
		"locale code of the catalog (default: Language header)")
	fs.Float64Var(&v.O.FuzzyThreshold, "fuzzy-threshold", merge.DefaultFuzzyThreshold,
		"similarity ratio in [0,1] required for fuzzy matching")
	fs.StringVar(&v.O.OnObsolete, "on-obsolete", string(merge.MarkAsObsolete),
		"what to do with dropped entries: 'mark-as-obsolete' or 'delete'")
	fs.BoolVar(&v.O.Previous, "previous", true,
		"snapshot the replaced msgid into #| comments of fuzzy entries")
	fs.StringVar(&v.O.PluralForms, "plural-forms", "",
		"Plural-Forms header value overriding the builtin table")

	return v.cmd
}

func (v mergeCommand) Execute(args []string) error {
	if len(args) != 2 {
		return NewErrorWithUsage("merge requires exactly two arguments: <old.po> and <template>")
	}

	policy, err := v.policy()
	if err != nil {
		return err
	}

	oldCat, err := util.ReadCatalog(args[0])
	if err != nil {
		return NewStandardErrorF("%v", err)
	}
	template, err := util.ReadCatalog(args[1])
	if err != nil {
		return NewStandardErrorF("%v", err)
	}

	merged, summary, err := merge.Merge(oldCat, template, policy)
	if err != nil {
		return NewStandardErrorF("%v", err)
	}

	if flag.DryRun() {
		log.Infof("dryrun: not writing %s", outputName(v.O.Output))
		printSummary(summary, false)
		return nil
	}
	if err := util.WriteCatalog(v.O.Output, merged); err != nil {
		return NewStandardErrorF("failed to write %s: %v", outputName(v.O.Output), err)
	}
	printSummary(summary, v.O.Output == "" || v.O.Output == "-")
	return nil
}

// policy builds the merge policy from the configuration layers and the
// command line flags, flags winning.
func (v mergeCommand) policy() (merge.Policy, error) {
	cfg, err := loadConfigFile()
	if err != nil {
		return merge.Policy{}, NewStandardErrorF("%v", err)
	}
	policy := cfg.Policy(v.O.Locale)
	fs := v.cmd.Flags()
	if fs.Changed("fuzzy-threshold") {
		policy.FuzzyThreshold = v.O.FuzzyThreshold
	}
	if fs.Changed("on-obsolete") {
		policy.OnObsolete = merge.ObsoletePolicy(v.O.OnObsolete)
	}
	if fs.Changed("previous") {
		policy.StorePrevious = v.O.Previous
	}
	if fs.Changed("plural-forms") {
		policy.PluralForms = v.O.PluralForms
	}
	if err := policy.Validate(); err != nil {
		return merge.Policy{}, NewErrorWithUsageF("%v", err)
	}
	return policy, nil
}

// loadConfigFile reads the layered configuration, honoring --config.
func loadConfigFile() (*config.File, error) {
	if path := flag.ConfigFile(); path != "" {
		f, err := config.LoadPath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return f, nil
	}
	return config.Load(repository.WorkDirOrCwd())
}

func outputName(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}

var (
	addedColor    = color.New(color.FgGreen)
	removedColor  = color.New(color.FgRed)
	fuzzyColor    = color.New(color.FgYellow)
	obsoleteColor = color.New(color.FgMagenta)
)

func formatSummary(s merge.ChangeSummary) string {
	return fmt.Sprintf("%s, %s, %d unchanged, %s, %s",
		addedColor.Sprintf("%d new", s.New),
		removedColor.Sprintf("%d removed", s.Removed),
		s.Unchanged,
		fuzzyColor.Sprintf("%d fuzzy", s.Fuzzy),
		obsoleteColor.Sprintf("%d obsolete", s.Obsolete),
	)
}

// printSummary reports the change summary. When the catalog itself was
// written to stdout, the summary moves to stderr.
func printSummary(summary merge.ChangeSummary, catalogOnStdout bool) {
	line := formatSummary(summary)
	switch {
	case catalogOnStdout:
		fmt.Fprintln(os.Stderr, line)
	case isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()):
		fmt.Println(line)
	default:
		log.Info(summary.String())
	}
}

var mergeCmd = mergeCommand{}

func init() {
	rootCmd.AddCommand(mergeCmd.Command())
}
