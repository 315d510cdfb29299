package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/relpack/internal/constants"
	"github.com/mrz1836/relpack/internal/logging"
)

// HomeEnvVar overrides the relpack home directory (default ~/.relpack).
const HomeEnvVar = "RELPACK_HOME"

// logFileWriter holds the log file writer for cleanup during shutdown.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup

// zerologConfigOnce ensures zerolog global settings are configured exactly once.
var zerologConfigOnce sync.Once //nolint:gochecknoglobals // One-time configuration

// zerologGlobalMu protects concurrent writes to the zerolog global logger.
var zerologGlobalMu sync.Mutex //nolint:gochecknoglobals // Protects zerolog global

// configureZerologGlobals sets the field names used in every log entry.
func configureZerologGlobals() {
	zerologConfigOnce.Do(func() {
		zerolog.TimestampFieldName = "ts"
		zerolog.MessageFieldName = "event"
	})
}

// loggerSetup holds the common components needed to create a logger.
type loggerSetup struct {
	level      zerolog.Level
	hook       zerolog.Hook
	fileWriter io.WriteCloser
	console    io.Writer
}

// prepareLoggerSetup creates the logger components. A log file error is
// returned but non-fatal; callers continue with console-only logging.
func prepareLoggerSetup(verbose, quiet bool) (*loggerSetup, error) {
	configureZerologGlobals()

	setup := &loggerSetup{
		level:   selectLevel(verbose, quiet),
		hook:    logging.NewSensitiveDataHook(),
		console: selectOutput(),
	}

	fileWriter, err := createLogFileWriter()
	if err == nil {
		setup.fileWriter = fileWriter
	}
	return setup, err
}

// buildLogger creates the logger with the run_id attached to every entry.
func buildLogger(setup *loggerSetup, writer io.Writer, runID string) zerolog.Logger {
	ctx := zerolog.New(writer).Level(setup.level).Hook(setup.hook).With().Timestamp()
	if runID != "" {
		ctx = ctx.Str("run_id", runID)
	}
	return ctx.Logger()
}

// InitLogger creates the CLI logger.
//
// Log levels:
//   - verbose=true: Debug level
//   - quiet=true: Warn level
//   - default: Info level
//
// Console output is human-readable on a TTY without NO_COLOR and JSON on
// stderr otherwise. Entries are also written to ~/.relpack/logs/relpack.log
// with rotation and token redaction. If the log file cannot be created the
// logger continues with console-only output.
func InitLogger(verbose, quiet bool, runID string) zerolog.Logger {
	setup, err := prepareLoggerSetup(verbose, quiet)

	var writer io.Writer
	if err != nil || setup.fileWriter == nil {
		writer = setup.console
	} else {
		logFileWriter = setup.fileWriter
		writer = zerolog.MultiLevelWriter(setup.console, setup.fileWriter)
	}

	logger := buildLogger(setup, writer, runID)
	setGlobalLogger(logger)
	return logger
}

// setGlobalLogger makes the zerolog/log package logger match the CLI logger.
func setGlobalLogger(cliLogger zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = cliLogger
}

// InitLoggerWithWriter creates a logger writing to w through the redacting
// filter. It is intended for tests.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	configureZerologGlobals()

	setup := &loggerSetup{
		level: selectLevel(verbose, quiet),
		hook:  logging.NewSensitiveDataHook(),
	}
	logger := buildLogger(setup, logging.NewFilteringWriter(w), "")

	setGlobalLogger(logger)
	return logger
}

// CloseLogFile closes the global log file writer if it was opened.
func CloseLogFile() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// selectLevel determines the log level from the verbosity flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput picks the console writer. Console output is filtered too,
// because CI logs are as public as the release itself.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        logging.NewFilteringWriter(os.Stderr),
			TimeFormat: time.Kitchen,
		}
	}
	return logging.NewFilteringWriter(os.Stderr)
}

// filteringWriteCloser wraps a WriteCloser with sensitive data filtering.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

// Write implements io.Writer by delegating to the filtering writer.
func (fwc *filteringWriteCloser) Write(p []byte) (n int, err error) {
	return fwc.filter.Write(p)
}

// Close implements io.Closer by delegating to the underlying closer.
func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

// createLogFileWriter creates the rotating log file writer, wrapped so that
// tokens never reach the disk.
func createLogFileWriter() (io.WriteCloser, error) {
	logPath, err := LogFilePath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(logPath), constants.DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}

	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}

// getRelpackHome returns $RELPACK_HOME, or ~/.relpack when unset.
func getRelpackHome() (string, error) {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.RelpackHome), nil
}

// LogFilePath returns the path to the global CLI log file.
func LogFilePath() (string, error) {
	home, err := getRelpackHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.LogsDir, constants.CLILogFileName), nil
}
