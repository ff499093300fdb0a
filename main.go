package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/git-l10n/pomerge/cmd"
)

const (
	// Program is name for this project
	Program = "pomerge"
)

func main() {
	resp := cmd.Execute()

	if resp.Err != nil {
		errOut := resp.Cmd.ErrOrStderr()
		if resp.IsUserError() {
			if resp.Cmd.SilenceErrors {
				fmt.Fprintf(errOut, "ERROR: %s\n\n", resp.Err)
			}
			fmt.Fprint(errOut, resp.Cmd.UsageString())
		} else if resp.Cmd.SilenceErrors {
			fmt.Fprintf(errOut, "ERROR: %s\n", resp.Err)
			// Use CommandPath() to get the full command path (e.g.
			// "pomerge update"), without the Program prefix.
			cmdPath := resp.Cmd.CommandPath()
			subCmdPath := strings.TrimPrefix(cmdPath, Program+" ")
			if subCmdPath == "" {
				subCmdPath = resp.Cmd.Name()
			}
			fmt.Fprintf(errOut, "fail to execute \"%s %s\"\n", Program, subCmdPath)
		}
		os.Exit(-1)
	}
}
