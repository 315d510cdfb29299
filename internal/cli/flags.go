// Package cli provides the command-line interface for relpack.
package cli

import (
	stderrors "errors"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/relpack/internal/errors"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitError indicates a general error.
	ExitError = 1
	// ExitInvalidInput indicates invalid user input.
	ExitInvalidInput = 2
)

// Output format constants.
const (
	// OutputText is the default human-readable output format.
	OutputText = "text"
	// OutputJSON is the machine-readable JSON output format.
	OutputJSON = "json"
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text or json).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
	// Dir is the working directory holding the release artifacts.
	Dir string
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.PersistentFlags().StringVarP(&flags.Dir, "dir", "C", ".", "working directory holding the release artifacts")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds global flags to Viper so RELPACK_OUTPUT,
// RELPACK_VERBOSE, RELPACK_QUIET and RELPACK_DIR work as well.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	// Root().PersistentFlags() finds root flags from a subcommand's PersistentPreRunE.
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"output", "verbose", "quiet", "dir"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix("RELPACK")
	v.AutomaticEnv()

	return nil
}

// applyBoundFlags copies environment-provided values into flags the user did
// not set explicitly.
func applyBoundFlags(v *viper.Viper, cmd *cobra.Command, flags *GlobalFlags) {
	rootFlags := cmd.Root().PersistentFlags()
	if !rootFlags.Changed("output") {
		flags.Output = v.GetString("output")
	}
	if !rootFlags.Changed("dir") {
		flags.Dir = v.GetString("dir")
	}
	if !rootFlags.Changed("verbose") && !rootFlags.Changed("quiet") {
		flags.Verbose = v.GetBool("verbose")
		flags.Quiet = v.GetBool("quiet") && !flags.Verbose
	}
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	return slices.Contains(ValidOutputFormats(), format)
}

// ExitCodeForError returns the appropriate exit code for the given error.
// Returns ExitSuccess (0) for nil errors, ExitInvalidInput (2) for user input
// errors (invalid flags, bad arguments), and ExitError (1) for all other errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.IsExitCode2Error(err) {
		return ExitInvalidInput
	}

	for _, sentinel := range []error{
		errors.ErrInvalidOutputFormat,
		errors.ErrInvalidVariant,
		errors.ErrInvalidTag,
	} {
		if stderrors.Is(err, sentinel) {
			return ExitInvalidInput
		}
	}

	if isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}

	return ExitError
}

// isInvalidInputError checks if an error message indicates invalid user input.
// This catches Cobra's built-in flag validation errors.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"accepts ",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
