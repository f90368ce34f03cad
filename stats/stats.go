// Package stats aggregates per-run extraction counters.
package stats

import (
	"errors"
	"sync"

	"github.com/emlkit/eml-attachments/model"
)

type Summary struct {
	Files       int
	Extracted   int
	Empty       int
	ReadErrors  int
	WriteErrors int
	LastError   error
}

func (s Summary) LogAttrs() []any {
	attrs := []any{
		"files", s.Files,
		"extracted", s.Extracted,
		"empty", s.Empty,
		"readErrors", s.ReadErrors,
		"writeErrors", s.WriteErrors,
	}
	if s.LastError != nil {
		attrs = append(attrs, "lastError", s.LastError.Error())
	}
	return attrs
}

type Collector struct {
	mu      sync.Mutex
	summary Summary
}

func NewCollector() *Collector {
	return &Collector{}
}

// Record folds the outcome of one input file into the summary.
func (c *Collector) Record(res model.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.summary.Files++
	switch {
	case res.Err != nil:
		c.apply(res.Err)
	case res.Count == 0:
		c.summary.Empty++
	default:
		c.summary.Extracted += res.Count
	}
}

func (c *Collector) apply(err error) {
	var readErr *model.ReadError
	if errors.As(err, &readErr) {
		c.summary.ReadErrors++
	} else {
		c.summary.WriteErrors++
	}
	c.summary.LastError = err
}

func (c *Collector) Snapshot() Summary {
	c.mu.Lock()
	summary := c.summary
	c.mu.Unlock()
	return summary
}
