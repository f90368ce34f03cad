package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emlkit/eml-attachments/config"
	"github.com/emlkit/eml-attachments/runner"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "eml-attachments [flags] <eml-file-or-glob>...",
		Short:        "Extract file attachments from .eml message files",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd, args)
			if err != nil {
				return err
			}

			logger := setupLogger(cfg)
			slog.SetDefault(logger)
			logger.Debug("starting extraction", "patterns", len(cfg.Patterns), "organize", cfg.Organize, "keep", cfg.Keep)

			r, err := runner.New(cfg, logger, os.Stdout, os.Stderr)
			if err != nil {
				return err
			}
			return r.Run()
		},
	}
	config.RegisterFlags(rootCmd)
	rootCmd.AddCommand(newMboxCommand())

	// An interrupt ends the run immediately; partial output of an
	// in-flight write may remain on disk.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		os.Exit(1)
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.Config) *slog.Logger {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)

	switch cfg.LogLevel {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	}

	// Logs go to stderr: stdout carries exactly one line per input.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
