package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/worksheetz/internal/config"
	"github.com/abhisek/worksheetz/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "worksheetz",
	Short:         "Validate AI-generated worksheet tasks",
	Long:          "Worksheetz checks batches of generated school worksheet tasks for structural and semantic problems before they reach a learner.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit status. A nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// Exit statuses.
const (
	exitInvalid  = 1 // batch has errors, or a command failed
	exitContract = 2 // bad subject, grade or input document
)

// Execute runs the root command and returns the process exit status.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(os.Stderr, "Error:", ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return exitInvalid
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite run log (overrides WORKSHEETZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default "+config.UserConfigPath()+")")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads --config when given, else the user config file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return config.LoadFromPath(p)
	}
	return config.Load()
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured db (including WORKSHEETZ_DB), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore resolves the run log path and opens it.
func openStore(cmd *cobra.Command, cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
