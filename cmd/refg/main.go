// Package main provides the refg CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/config"
	"github.com/refgraph/refgraph/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables debug logging on stderr
var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refg",
	Short: "Entity resolution and citation graph for bibliographic records",
	Long: `refg manages a corpus of bibliographic records with built-in
entity resolution and citation discovery.

Core features:
  - Duplicate-aware record ingestion (new input merges into existing records)
  - Corpus-wide duplicate sweeps keeping the most complete copy
  - Automatic citation linking via DOI, title, and author/year signals
  - Citation graph queries: degrees, paths, orphan cleanup

Data is stored in git-versionable JSONL with ephemeral SQLite for queries.
All commands output JSON by default for scripting and agent integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.Version = Version
}

// newLogger builds the logger shared by the engine components. Output
// goes to stderr so stdout stays parseable.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// mustFindRepository finds the repository and loads its .env file, exits
// on error. Returns the repository root path.
func mustFindRepository() string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	repoRoot, err := config.FindRepository(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\nRun 'refg init' to create a repository here.\n", err)
		os.Exit(ExitConfigError)
	}

	if err := config.LoadEnv(repoRoot); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return repoRoot
}

// newStore opens the JSONL source of truth with transient-error retries.
func newStore(repoRoot string) storage.Store {
	return storage.WithRetry(storage.NewJSONLStore(config.DataPath(repoRoot)), 0)
}

// mustOpenDatabase opens the SQLite query database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// refreshCache rebuilds the SQLite query database after a mutation so
// read commands see current data. Best effort: a failed refresh is a
// warning, never a command failure, since the cache can always be
// rebuilt explicitly.
func refreshCache(repoRoot string, store storage.Store, log *logrus.Logger) {
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		log.WithError(err).Warn("could not open query cache for refresh")
		return
	}
	defer db.Close()

	if _, _, err := db.Rebuild(store); err != nil {
		log.WithError(err).Warn("could not refresh query cache; run 'refg rebuild'")
	}
}
