package cmd

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/git-l10n/pomerge/flag"
	"github.com/git-l10n/pomerge/merge"
	"github.com/git-l10n/pomerge/repository"
	"github.com/git-l10n/pomerge/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type updateCommand struct {
	cmd *cobra.Command
	O   struct {
		Template string
		Jobs     int
	}
}

func (v *updateCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "update <XX.po>...",
		Short: "Merge catalogs with the project template in place",
		Long: `Merge each XX.po with the project template and write the result back.

Arguments may be catalog paths or bare locale codes; a bare code XX is
resolved to po/XX.po under the project root. The template defaults to
the single *.pot file under po/ and can be set with --template. Files
are processed in parallel; the locale of each catalog is derived from
its file name unless the policy file says otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	fs := v.cmd.Flags()
	fs.StringVar(&v.O.Template, "template", "",
		"merge template (default: the single po/*.pot file)")
	fs.IntVarP(&v.O.Jobs, "jobs", "j", 0,
		"number of catalogs merged in parallel (default: number of CPUs)")
	return v.cmd
}

func (v updateCommand) Execute(args []string) error {
	if len(args) == 0 {
		return NewErrorWithUsage("no argument for update command")
	}

	templatePath, err := v.templatePath()
	if err != nil {
		return err
	}
	template, err := util.ReadCatalog(templatePath)
	if err != nil {
		return NewStandardErrorF("%v", err)
	}
	log.Debugf("using template %s with %d entries", templatePath, len(template.Entries))

	cfg, err := loadConfigFile()
	if err != nil {
		return NewStandardErrorF("%v", err)
	}

	files := make([]string, len(args))
	for i, arg := range args {
		path, err := resolveCatalogPath(arg)
		if err != nil {
			return err
		}
		files[i] = path
	}

	jobs := v.O.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Indexed results, no mutex needed.
	summaries := make([]merge.ChangeSummary, len(files))

	var g errgroup.Group
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				old, err := util.ReadCatalog(path)
				if err != nil {
					return err
				}
				policy := cfg.Policy(localeOf(path))
				if err := policy.Validate(); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				merged, summary, err := merge.Merge(old, template, policy)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				summaries[i] = summary
				if flag.DryRun() {
					log.Debugf("dryrun: not writing %s", path)
					return nil
				}
				return util.WriteCatalog(path, merged)
			}
		}(i, path))
	}
	if err := g.Wait(); err != nil {
		return NewStandardErrorF("%v", err)
	}

	for i, path := range files {
		fmt.Printf("%s: %s\n", path, formatSummary(summaries[i]))
	}
	return nil
}

// templatePath returns --template, or the single *.pot under po/.
func (v updateCommand) templatePath() (string, error) {
	if v.O.Template != "" {
		return v.O.Template, nil
	}
	poDir := filepath.Join(repository.WorkDirOrCwd(), util.PoDir)
	matches, err := filepath.Glob(filepath.Join(poDir, "*.pot"))
	if err != nil {
		return "", NewStandardErrorF("%v", err)
	}
	switch len(matches) {
	case 0:
		return "", NewStandardErrorF("no template found under %s, use --template", poDir)
	case 1:
		return matches[0], nil
	default:
		return "", NewStandardErrorF("multiple templates under %s (%s), use --template",
			poDir, strings.Join(matches, ", "))
	}
}

// resolveCatalogPath accepts an existing path or a bare locale code
// naming po/XX.po under the project root.
func resolveCatalogPath(arg string) (string, error) {
	if util.IsFile(arg) {
		return arg, nil
	}
	if !strings.ContainsAny(arg, `/\`) {
		name := arg
		if !strings.HasSuffix(name, ".po") {
			name += ".po"
		}
		path := filepath.Join(repository.WorkDirOrCwd(), util.PoDir, name)
		if util.IsFile(path) {
			return path, nil
		}
	}
	return "", NewStandardErrorF("po file %s not found", arg)
}

func localeOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".po")
}

var updateCmd = updateCommand{}

func init() {
	rootCmd.AddCommand(updateCmd.Command())
}
