package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/config"
	"github.com/refgraph/refgraph/internal/storage"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a refgraph repository in the current directory",
	Long: `Create a .refgraph directory with empty record and edge files,
a default config.yml, and the query cache directory.

Running init inside an existing repository is an error.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsRepository(cwd) {
		exitWithError(ExitError, "already a refgraph repository: %s", config.DataPath(cwd))
	}

	if err := os.MkdirAll(config.CachePath(cwd), 0755); err != nil {
		exitWithError(ExitError, "creating repository layout: %v", err)
	}

	store := storage.NewJSONLStore(config.DataPath(cwd))
	if err := store.Init(); err != nil {
		exitWithError(ExitError, "creating data files: %v", err)
	}

	if err := config.Default().Save(cwd); err != nil {
		exitWithError(ExitError, "writing default config: %v", err)
	}

	if humanOutput {
		outputHuman("Initialized refgraph repository in %s\n", config.DataPath(cwd))
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: config.DataPath(cwd)})
	}
	return nil
}
