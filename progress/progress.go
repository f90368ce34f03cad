// Package progress renders a progress bar for archive scans where
// the total number of messages is known up front.
package progress

import (
	"github.com/pterm/pterm"
)

// Bar wraps a pterm progress bar. A disabled Bar is a no-op, so
// callers never have to branch on the flag themselves.
type Bar struct {
	pb      *pterm.ProgressbarPrinter
	enabled bool
}

// New starts a progress bar over total steps. With enabled false all
// methods are no-ops.
func New(total int, enabled bool) *Bar {
	if !enabled || total <= 0 {
		return &Bar{}
	}

	pb, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Scanning messages").
		Start()

	return &Bar{pb: pb, enabled: true}
}

// Increment advances the bar by one step. A non-empty title replaces
// the bar title, truncated to keep the line readable.
func (b *Bar) Increment(title string) {
	if !b.enabled || b.pb == nil {
		return
	}

	b.pb.Increment()
	if title != "" {
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		b.pb.UpdateTitle("Processing: " + title)
	}
}

// Stop finalizes the bar.
func (b *Bar) Stop() {
	if !b.enabled || b.pb == nil {
		return
	}
	if b.pb.Current < b.pb.Total {
		b.pb.Current = b.pb.Total
	}
	b.pb.Stop()
}
