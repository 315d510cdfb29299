package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/relpack/internal/constants"
	"github.com/mrz1836/relpack/internal/errors"
)

// GlobalConfigDir returns the path to the global relpack configuration directory.
// This is typically ~/.relpack on Unix systems.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.RelpackHome), nil
}

// ProjectConfigDir returns the path to the project configuration directory
// inside workDir.
func ProjectConfigDir(workDir string) string {
	return filepath.Join(workDir, constants.RelpackHome)
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the path to the project configuration file
// inside workDir.
func ProjectConfigPath(workDir string) string {
	return filepath.Join(ProjectConfigDir(workDir), constants.ConfigFileName)
}
