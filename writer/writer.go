// Package writer persists selected attachments to disk.
package writer

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/emlkit/eml-attachments/message"
	"github.com/emlkit/eml-attachments/pathsafe"
)

// Save writes one attachment into dir. The declared filename is
// sanitized first; with keep enabled an occupied path gets a fresh
// unique name instead of being overwritten. message/rfc822 parts are
// re-serialized in text form through the parser, everything else is
// written as decoded bytes.
func Save(dir string, att *message.Message, keep bool) error {
	name := pathsafe.Sanitize(att.Filename())
	if name == "" {
		name = fallbackName(att.ContentType())
	}

	path := filepath.Join(dir, name)
	if keep {
		path = pathsafe.UniquePath(path)
	}

	if att.ContentType() == message.ContentTypeEmbedded {
		sub, err := att.Embedded()
		if err != nil {
			return fmt.Errorf("decode embedded message: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := sub.WriteTo(f); err != nil {
			f.Close()
			return fmt.Errorf("serialize embedded message: %w", err)
		}
		return f.Close()
	}

	data, err := att.Payload()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// fallbackName is the deterministic name used when a part declares no
// filename at all.
func fallbackName(contentType string) string {
	if contentType == message.ContentTypeEmbedded {
		return "attachment.eml"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return "attachment" + exts[0]
	}
	return "attachment.bin"
}
