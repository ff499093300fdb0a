package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const groupAnnotationKey = "group"

// flagUsagesByGroup formats local flags by their "group" annotation.
// Flags sharing a group are printed under a section header, in the
// order the groups were first seen. Flags without a group go under
// "Other options". Falls back to the default FlagUsages when no flag
// carries a group annotation.
func flagUsagesByGroup(cmd *cobra.Command) string {
	fs := cmd.LocalFlags()
	if fs == nil || !cmd.HasAvailableLocalFlags() {
		return ""
	}

	var order []string
	groups := make(map[string]*pflag.FlagSet)
	grouped := false

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := "Other options"
		if g, ok := f.Annotations[groupAnnotationKey]; ok && len(g) > 0 {
			name = g[0]
			grouped = true
		}
		// Cobra adds --help after command creation; file it under
		// General options when that group exists.
		if name == "Other options" && f.Name == "help" {
			name = "General options"
		}
		set, ok := groups[name]
		if !ok {
			set = pflag.NewFlagSet(name, pflag.ContinueOnError)
			groups[name] = set
			order = append(order, name)
		}
		set.AddFlag(f)
	})

	if !grouped {
		return fs.FlagUsages()
	}

	var buf strings.Builder
	for i, name := range order {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "%s:\n", name)
		buf.WriteString(groups[name].FlagUsages())
	}
	return buf.String()
}

func init() {
	cobra.AddTemplateFunc("flagUsagesByGroup", flagUsagesByGroup)
}
