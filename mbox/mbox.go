// Package mbox iterates the messages of an mbox archive so the same
// extraction pipeline can run on each of them.
package mbox

import (
	"errors"
	"fmt"
	"io"
	"os"

	mboxlib "github.com/emersion/go-mbox"

	"github.com/emlkit/eml-attachments/message"
)

// Read opens an mbox archive and calls fn for every message it can
// parse, in archive order. Messages the parser rejects are skipped so
// a corrupted entry never hides the rest of the archive.
func Read(path string, fn func(idx int, m *message.Message) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open mbox: %w", err)
	}
	defer file.Close()

	reader := mboxlib.NewReader(file)
	for idx := 0; ; idx++ {
		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("message %d: %w", idx, err)
		}

		m, err := message.Parse(msgReader)
		if err != nil {
			continue
		}

		if err := fn(idx, m); err != nil {
			return err
		}
	}
}

// Count counts the messages in an mbox archive without parsing them.
func Count(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open mbox: %w", err)
	}
	defer file.Close()

	reader := mboxlib.NewReader(file)
	count := 0
	for {
		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return count, nil
			}
			return 0, err
		}

		// Consume without parsing; a truncated entry still counts.
		_, _ = io.Copy(io.Discard, msgReader)
		count++
	}
}
