package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const programName = "scrimnight"

func main() {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Team balancing and match tracking for 5v5 scrim nights",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if _, err := maxprocs.Set(maxprocs.Logger(func(format string, v ...any) {
				slog.Debug(fmt.Sprintf(format, v...), "component", programName)
			})); err != nil {
				slog.Warn("failed to set GOMAXPROCS", "error", err)
			}
		},
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(keygenCommand())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler).With("component", programName))
}
