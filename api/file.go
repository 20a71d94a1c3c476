// Package api contains helpers for folio's on-disk configuration files.
package api

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// AppName is the directory name used below the user's config directory.
const AppName = "folio"

// ConfigPath returns the path of filename in the user's folio config
// directory: $XDG_CONFIG_HOME/folio, else ~/.config/folio, else a directory
// below [os.TempDir].
func ConfigPath(filename string) string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, AppName, filename)
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", AppName, filename)
	}

	tmpPath := filepath.Join(os.TempDir(), AppName, filename)

	slog.Warn("could not determine user config directory, using temp path",
		slog.String("path", tmpPath),
		slog.Any("error", err),
	)

	return tmpPath
}

// ReadFile reads the regular file at path.
func ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: not a regular file", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is chosen by the user.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// WriteFile writes data to path, creating parent directories as needed.
// An existing file is only replaced when force is set, after renaming it to
// a timestamped backup next to it. It reports whether data was written.
func WriteFile(path string, data []byte, force bool) (bool, error) {
	info, err := os.Stat(path)

	switch {
	case err == nil && info.IsDir():
		return false, fmt.Errorf("%s: path is a directory", path)
	case err == nil && !info.Mode().IsRegular():
		return false, fmt.Errorf("%s: unknown file state", path)
	case err == nil && !force:
		slog.Debug("file already exists, skipping write", slog.String("path", path))

		return false, nil
	case err == nil:
		backupPath := fmt.Sprintf("%s.%d.old", path, time.Now().UnixNano())
		slog.Info("backing up existing file", slog.String("path", backupPath))

		err = os.Rename(path, backupPath)
		if err != nil {
			return false, fmt.Errorf("back up existing file: %w", err)
		}
	case !os.IsNotExist(err):
		return false, fmt.Errorf("stat file: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return false, fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return false, fmt.Errorf("write file: %w", err)
	}

	slog.Info("wrote file", slog.String("path", path))

	return true, nil
}
