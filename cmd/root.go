package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "confwatch",
	Short: "Watch a remote configuration source and act on changes.",
	Long: `confwatch polls a remote configuration source, compares the result
against a locally cached snapshot, and runs the hooks declared in its
configuration file whenever the data actually changed. It is meant to be
invoked periodically from cron or a systemd timer; an invocation that finds
no change does nothing.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Root returns the fully wired command tree for main to execute.
func Root() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "file", "f", "", "path to the configuration document")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(queryCmd)
}

func setupLogging() {
	logLevel := slog.LevelInfo
	if levelStr := os.Getenv("CONFWATCH_LOG_LEVEL"); levelStr != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(levelStr)); err == nil {
			logLevel = l
		}
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.Kitchen,
		}),
	))
}
