// Package config handles repository discovery and configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Repository layout inside the .refgraph directory.
const (
	DataDir    = ".refgraph"
	ConfigFile = "config.yml"
	CacheDir   = "cache"
	DBFile     = "refgraph.db"
)

// EnvRoot, when set, overrides repository discovery entirely.
const EnvRoot = "REFGRAPH_ROOT"

// DataPath returns the path to the .refgraph directory from a root path.
func DataPath(root string) string {
	return filepath.Join(root, DataDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, DataDir, ConfigFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, DataDir, CacheDir)
}

// DBPath returns the path to the SQLite cache database from a root path.
func DBPath(root string) string {
	return filepath.Join(root, DataDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a refgraph repository.
func IsRepository(root string) bool {
	info, err := os.Stat(DataPath(root))
	return err == nil && info.IsDir()
}

// FindRepository locates the repository root. REFGRAPH_ROOT wins when set;
// otherwise the search walks up from the given path looking for a
// .refgraph directory.
func FindRepository(start string) (string, error) {
	if root := os.Getenv(EnvRoot); root != "" {
		root = ExpandPath(root)
		if !IsRepository(root) {
			return "", fmt.Errorf("%s points at %s, which is not a refgraph repository", EnvRoot, root)
		}
		return root, nil
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a refgraph repository (no %s directory found)", DataDir)
		}
		abs = parent
	}
}

// LoadEnv loads a .env file from the repository root if one exists.
// Variables already set in the environment are not overridden.
func LoadEnv(root string) error {
	path := filepath.Join(root, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
