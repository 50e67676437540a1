package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/courseforge/internal/config"
	"github.com/abhisek/courseforge/internal/logger"
	"github.com/abhisek/courseforge/internal/store"
)

// Resolved in PersistentPreRunE before any subcommand runs.
var (
	appCfg config.Config
	appLog = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:           "courseforge",
	Short:         "Generate technical courses and learning roadmaps",
	Long:          "courseforge synthesizes course catalogs from a template, builds a roadmap per course and serves roadmaps and learner progress over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}

		v := config.New()
		if err := config.BindFlags(v, cmd.Flags()); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.LogMode)
		if err != nil {
			return err
		}
		appCfg, appLog = cfg, log
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		appLog.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String(config.KeyDB, "", "Database path or postgres:// DSN (overrides COURSEFORGE_DB)")
	rootCmd.PersistentFlags().String("env-file", "", "Load environment variables from this file (default .env when present)")
	rootCmd.PersistentFlags().String(config.KeyLogMode, "dev", "Log format: dev or prod")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns --db or COURSEFORGE_DB when set, then the default
// XDG path.
func resolveDBPath() (string, error) {
	if p := appCfg.DB; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
