// Package runner drives one extraction run: resolve input files,
// process them in order, and report a line per file. Processing is
// fully sequential; one bad input never stops the run.
package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/emlkit/eml-attachments/config"
	"github.com/emlkit/eml-attachments/extract"
	"github.com/emlkit/eml-attachments/filter"
	"github.com/emlkit/eml-attachments/message"
	"github.com/emlkit/eml-attachments/model"
	"github.com/emlkit/eml-attachments/pathsafe"
	"github.com/emlkit/eml-attachments/stats"
	"github.com/emlkit/eml-attachments/writer"
)

type Runner struct {
	cfg    config.Config
	filter *filter.Filter
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
	stats  *stats.Collector
}

func New(cfg config.Config, logger *slog.Logger, stdout, stderr io.Writer) (*Runner, error) {
	f, err := filter.New(filter.Options{
		IncludeType: cfg.IncludeType,
		ExcludeType: cfg.ExcludeType,
	})
	if err != nil {
		return nil, fmt.Errorf("attachment filter: %w", err)
	}

	return &Runner{
		cfg:    cfg,
		filter: f,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
		stats:  stats.NewCollector(),
	}, nil
}

// Run processes every resolved input file. Per-file failures are
// reported on stderr and never abort the run.
func (r *Runner) Run() error {
	files := expandPatterns(r.cfg.Patterns)
	r.logger.Debug("resolved input files", "patterns", len(r.cfg.Patterns), "files", len(files))

	for _, path := range files {
		res := r.processFile(path)
		r.stats.Record(res)
		r.report(res)
	}

	summary := r.stats.Snapshot()
	r.logger.Info("run completed", summary.LogAttrs()...)
	return nil
}

// Summary returns the counters accumulated so far.
func (r *Runner) Summary() stats.Summary {
	return r.stats.Snapshot()
}

func (r *Runner) processFile(path string) model.Result {
	msg, err := message.Load(path)
	if err != nil {
		return model.Result{Path: path, Err: &model.ReadError{Path: path, Err: err}}
	}

	atts := r.Select(msg)
	if len(atts) == 0 {
		return model.Result{Path: path}
	}

	dir := r.outputDir(path)
	if err := r.WriteAll(dir, atts); err != nil {
		return model.Result{Path: path, Err: &model.WriteError{Path: path, Err: err}}
	}

	return model.Result{Path: path, Count: len(atts)}
}

// Select returns the attachments of msg that pass the configured
// filters, in parser order.
func (r *Runner) Select(msg *message.Message) []*message.Message {
	var kept []*message.Message
	for _, att := range extract.Attachments(msg) {
		if r.filter.Allows(att.ContentType(), att.Filename()) {
			kept = append(kept, att)
		}
	}
	return kept
}

// WriteAll creates dir and writes every attachment into it. The first
// failed write aborts the remaining attachments.
func (r *Runner) WriteAll(dir string, atts []*message.Message) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, att := range atts {
		if err := writer.Save(dir, att, r.cfg.Keep); err != nil {
			return err
		}
	}
	return nil
}

// outputDir resolves the destination directory for one input file.
// With organize and keep both active the directory itself is made
// unique so re-runs never merge into a prior run's folder.
func (r *Runner) outputDir(input string) string {
	dir := r.cfg.OutputDir
	if r.cfg.Organize {
		dir = filepath.Join(dir, Stem(input))
		if r.cfg.Keep {
			dir = pathsafe.UniquePath(dir)
		}
	}
	return dir
}

func (r *Runner) report(res model.Result) {
	var readErr *model.ReadError
	var writeErr *model.WriteError
	switch {
	case errors.As(res.Err, &readErr):
		fmt.Fprintf(r.stderr, "Error: %s <failed to read file>\n", res.Path)
	case errors.As(res.Err, &writeErr):
		fmt.Fprintf(r.stderr, "Error: %s <%v>\n", filepath.Base(res.Path), writeErr.Err)
	default:
		fmt.Fprintf(r.stdout, "%s (%d)\n", res.Path, res.Count)
	}
}

// Stem returns the base filename of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// expandPatterns glob-expands every pattern independently. A pattern
// without glob metacharacters that matches nothing is kept as a
// literal path so missing or unreadable inputs surface as per-file
// read errors.
func expandPatterns(patterns []string) []string {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err == nil && len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if !strings.ContainsAny(pattern, "*?[") {
			files = append(files, pattern)
		}
	}
	return files
}
