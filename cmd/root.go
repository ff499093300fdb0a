// Package cmd provides CLI implementations.
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/git-l10n/pomerge/flag"
	"github.com/git-l10n/pomerge/repository"
	"github.com/git-l10n/pomerge/version"
	log "github.com/sirupsen/logrus"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = rootCommand{}

// errorWithUsage marks an error that should display command usage.
type errorWithUsage struct{ msg string }

func (e errorWithUsage) Error() string { return e.msg }

// NewErrorWithUsage creates an error that should display usage (e.g. argument/flag errors).
func NewErrorWithUsage(a ...interface{}) error {
	return errorWithUsage{msg: fmt.Sprintln(a...)}
}

// NewErrorWithUsageF creates an error that should display usage.
func NewErrorWithUsageF(format string, a ...interface{}) error {
	return errorWithUsage{msg: fmt.Sprintf(format, a...)}
}

// NewStandardError creates an error that should not display usage.
func NewStandardError(a ...interface{}) error {
	return fmt.Errorf("%s", fmt.Sprint(a...))
}

// NewStandardErrorF creates an error that should not display usage.
func NewStandardErrorF(format string, a ...interface{}) error {
	return fmt.Errorf(format, a...)
}

// IsErrorWithUsage returns true if the error should display command usage.
func IsErrorWithUsage(err error) bool {
	_, ok := err.(errorWithUsage)
	return ok
}

// Response wraps error for subcommand, and is returned from cmd package.
type Response struct {
	// Err contains error returned from the subcommand executed.
	Err error

	// Cmd contains the command object.
	Cmd *cobra.Command
}

// IsUserError returns true if the wrapped error is an argument or flag
// error that should display usage.
func (r Response) IsUserError() bool {
	return r.Err != nil && IsErrorWithUsage(r.Err)
}

type rootCommand struct {
	cmd *cobra.Command
}

func (v *rootCommand) initLog() {
	f := new(log.TextFormatter)
	f.DisableTimestamp = true
	f.DisableLevelTruncation = true
	log.SetFormatter(f)
	verbose := flag.Verbose()
	quiet := flag.Quiet()
	if verbose == 1 {
		log.SetLevel(log.DebugLevel)
	} else if verbose > 1 {
		log.SetLevel(log.TraceLevel)
	} else if quiet == 1 {
		log.SetLevel(log.WarnLevel)
	} else if quiet > 1 {
		log.SetLevel(log.ErrorLevel)
	}
	if flag.NoColor() {
		color.NoColor = true
	}
}

func (v *rootCommand) initRepository() {
	repository.OpenRepository("")
}

// Command represents the base command when called without any subcommands
func (v *rootCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "pomerge",
		Short: "Merge and maintain gettext PO catalogs",
		// Let main.go handle error output; do not show usage on every error
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	v.cmd.Version = version.Version
	v.cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
	v.cmd.PersistentFlags().Bool("dryrun",
		false,
		"dryrun mode")
	v.cmd.PersistentFlags().CountP("quiet",
		"q",
		"quiet mode")
	v.cmd.PersistentFlags().CountP("verbose",
		"v",
		"verbose mode")
	v.cmd.PersistentFlags().Bool("no-color",
		false,
		"turn off colored output")
	v.cmd.PersistentFlags().String("config",
		"",
		"load merge policy from this file (overrides ~/.pomerge.yaml and repo .pomerge.yaml)")
	_ = v.cmd.PersistentFlags().MarkHidden("dryrun")

	_ = viper.BindPFlag(
		"dryrun",
		v.cmd.PersistentFlags().Lookup("dryrun"))
	_ = viper.BindPFlag(
		"quiet",
		v.cmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag(
		"verbose",
		v.cmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag(
		"no-color",
		v.cmd.PersistentFlags().Lookup("no-color"))
	_ = viper.BindPFlag(
		"config",
		v.cmd.PersistentFlags().Lookup("config"))

	return v.cmd
}

func (v rootCommand) Execute(args []string) error {
	return NewErrorWithUsage("run 'pomerge -h' for help")
}

func (v *rootCommand) AddCommand(cmds ...*cobra.Command) {
	v.Command().AddCommand(cmds...)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() Response {
	var (
		resp Response
	)

	// Ensure all commands use SilenceErrors so main.go handles error output.
	setSilenceErrorsRecursive(rootCmd.Command())

	c, err := rootCmd.Command().ExecuteC()
	resp.Err = err
	resp.Cmd = c
	return resp
}

func init() {
	cobra.OnInitialize(rootCmd.initLog)
	cobra.OnInitialize(rootCmd.initRepository)
}

// setSilenceErrorsRecursive sets SilenceErrors on c and all its descendants.
func setSilenceErrorsRecursive(c *cobra.Command) {
	c.SilenceErrors = true
	for _, child := range c.Commands() {
		setSilenceErrorsRecursive(child)
	}
}
