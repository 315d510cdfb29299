package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/relpack/internal/errors"
	"github.com/mrz1836/relpack/internal/signal"
	"github.com/mrz1836/relpack/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the logger initialized in PersistentPreRunE.
// Access is protected by globalLoggerMu.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the logger for use by subcommands.
//
// It MUST only be called after the root command's PersistentPreRunE has run;
// before that it returns a zero-value logger that discards output.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates the root command for the relpack CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "relpack",
		Short: "Validate, checksum, package and publish release artifacts",
		Long: `relpack turns a directory of patches, XML configurations, ROM images and
data blobs into a published release.

Every release runs the same steps:
  1. validate  - patch dry-runs, XML well-formedness, required files
  2. checksum  - SHA-256 manifest of every artifact (checksums.txt)
  3. package   - tar.gz bundle plus RELEASE_NOTES.md
  4. publish   - semantic-release for main, gh release for v* tags

Each step can also be run on its own.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			applyBoundFlags(v, cmd, flags)

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			runID := uuid.NewString()
			logger := InitLogger(flags.Verbose, flags.Quiet, runID)

			globalLoggerMu.Lock()
			globalLogger = logger
			globalLoggerMu.Unlock()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logger.WithContext(ctx))

			logger.Debug().Str("command", cmd.CommandPath()).Str("dir", flags.Dir).Msg("relpack starting")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddValidateCommand(cmd, flags)
	AddChecksumCommand(cmd, flags)
	AddPackageCommand(cmd, flags)
	AddReleaseCommand(cmd, flags)
	AddNotesCommand(cmd, flags)
	AddTriggerCommand(cmd, flags)
	AddVerifyCommand(cmd, flags)
	AddConfigCommand(cmd, flags)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command. SIGINT and SIGTERM cancel the run; errors
// are printed once here, in the selected output format.
func Execute(ctx context.Context, info BuildInfo) error {
	h := signal.NewHandler(ctx, signal.WithOnInterrupt(func(sig os.Signal) {
		logger := GetLogger()
		logger.Warn().Str("signal", sig.String()).Msg("interrupted, stopping after the current file")
	}))
	defer h.Stop()
	defer CloseLogFile()

	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	err := cmd.ExecuteContext(h.Context())
	if err != nil && !stderrors.Is(err, errors.ErrJSONErrorOutput) {
		format := flags.Output
		if !IsValidOutputFormat(format) {
			format = OutputText
		}
		tui.NewOutput(cmd.ErrOrStderr(), format).Error(err)
	}
	return err
}
