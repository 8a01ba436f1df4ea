// Package cli implements the shortclips command line front end.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clipsmith/shortclips/internal/config"
	"github.com/clipsmith/shortclips/internal/logging"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:           "shortclips",
		Short:         "Convert long videos into short vertical clips",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.PersistentFlags().String("config", "", "Path to TOML config file")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd(), newServeCmd(), newInfoCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadApp resolves the application config and logger from persistent flags.
func loadApp(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	app, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		app.LogLevel = lvl
	}
	return app, logging.New(app.LogLevel, app.LogFormat), nil
}
