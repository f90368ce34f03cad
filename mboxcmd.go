package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/emlkit/eml-attachments/config"
	"github.com/emlkit/eml-attachments/mbox"
	"github.com/emlkit/eml-attachments/message"
	"github.com/emlkit/eml-attachments/model"
	"github.com/emlkit/eml-attachments/pathsafe"
	"github.com/emlkit/eml-attachments/progress"
	"github.com/emlkit/eml-attachments/runner"
	"github.com/emlkit/eml-attachments/stats"
)

func newMboxCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mbox <archive.mbox>",
		Short:        "Extract attachments from every message in an mbox archive",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd, nil)
			if err != nil {
				return err
			}
			noProgress, err := cmd.Flags().GetBool("no-progress")
			if err != nil {
				return err
			}

			logger := setupLogger(cfg)
			slog.SetDefault(logger)

			return runMbox(cfg, logger, args[0], !noProgress)
		},
	}
	config.RegisterFlags(cmd)
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")
	return cmd
}

func runMbox(cfg config.Config, logger *slog.Logger, path string, showProgress bool) error {
	r, err := runner.New(cfg, logger, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}

	total, err := mbox.Count(path)
	if err != nil {
		return err
	}
	logger.Debug("counted mbox messages", "path", path, "total", total)

	bar := progress.New(total, showProgress)
	collector := stats.NewCollector()
	stem := runner.Stem(path)

	err = mbox.Read(path, func(idx int, m *message.Message) error {
		bar.Increment(m.Subject())

		res := model.Result{Path: fmt.Sprintf("%s#%d", path, idx)}
		atts := r.Select(m)
		if len(atts) == 0 {
			collector.Record(res)
			return nil
		}

		dir := cfg.OutputDir
		if cfg.Organize {
			dir = filepath.Join(dir, stem, fmt.Sprintf("msg-%04d", idx))
			if cfg.Keep {
				dir = pathsafe.UniquePath(dir)
			}
		}

		if err := r.WriteAll(dir, atts); err != nil {
			res.Err = &model.WriteError{Path: res.Path, Err: err}
			logger.Error("message extraction failed", "message", res.Path, "err", err)
		} else {
			res.Count = len(atts)
		}
		collector.Record(res)
		return nil
	})
	bar.Stop()
	if err != nil {
		return err
	}

	summary := collector.Snapshot()
	if showProgress {
		pterm.Println()
		pterm.Info.Printf("Messages scanned: %d\n", summary.Files)
		pterm.Info.Printf("Attachments written: %d\n", summary.Extracted)
		pterm.Info.Printf("Messages without attachments: %d\n", summary.Empty)
		if summary.WriteErrors > 0 {
			pterm.Error.Printf("Failed messages: %d (last: %v)\n", summary.WriteErrors, summary.LastError)
		} else {
			pterm.Success.Println("Extraction complete!")
		}
	}
	logger.Info("mbox run completed", summary.LogAttrs()...)
	return nil
}
