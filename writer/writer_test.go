package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emlkit/eml-attachments/message"
)

func parseAttachment(t *testing.T, raw string) *message.Message {
	t.Helper()
	msg, err := message.Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return msg
}

const pdfAttachment = "From: a@example.com\r\n" +
	"Content-Type: application/pdf; name=\"invoice.pdf\"\r\n" +
	"Content-Disposition: attachment; filename=\"invoice.pdf\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"JVBERi0xLjQgZmFrZQ==\r\n"

func TestSave_WritesDecodedPayload(t *testing.T) {
	dir := t.TempDir()
	att := parseAttachment(t, pdfAttachment)

	if err := Save(dir, att, false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "invoice.pdf"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("written payload = %q", data)
	}
}

func TestSave_SanitizesFilename(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: text/csv; name=\"q1|q2;totals?.csv\"\r\n" +
		"Content-Disposition: attachment; filename=\"q1|q2;totals?.csv\"\r\n" +
		"\r\n" +
		"a,b\r\n"

	dir := t.TempDir()
	if err := Save(dir, parseAttachment(t, raw), false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "q1_q2_totals_.csv")); err != nil {
		t.Errorf("sanitized file missing: %v", err)
	}
}

func TestSave_OverwritesWithoutKeep(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invoice.pdf")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := Save(dir, parseAttachment(t, pdfAttachment), false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("file not overwritten: %q", data)
	}
}

func TestSave_KeepAddsUniqueSuffix(t *testing.T) {
	dir := t.TempDir()
	att := parseAttachment(t, pdfAttachment)

	if err := Save(dir, att, true); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := Save(dir, att, true); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d files, want 2", len(entries))
	}

	var suffixed string
	for _, e := range entries {
		if e.Name() != "invoice.pdf" {
			suffixed = e.Name()
		}
	}
	if !strings.HasPrefix(suffixed, "invoice_") || !strings.HasSuffix(suffixed, ".pdf") {
		t.Errorf("unexpected unique name: %q", suffixed)
	}
}

func TestSave_EmbeddedMessageSerializedAsText(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: message/rfc822; name=\"original.eml\"\r\n" +
		"Content-Disposition: attachment; filename=\"original.eml\"\r\n" +
		"\r\n" +
		"From: inner@example.com\r\n" +
		"Subject: inner\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"inner body\r\n"

	dir := t.TempDir()
	if err := Save(dir, parseAttachment(t, raw), false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "original.eml"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "inner body") {
		t.Errorf("serialized message missing body: %q", data)
	}
	if !strings.Contains(string(data), "Subject: inner") {
		t.Errorf("serialized message missing header: %q", data)
	}
}

func TestSave_MissingFilenameGetsFallback(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: application/x-unknown-thing\r\n" +
		"Content-Disposition: attachment\r\n" +
		"\r\n" +
		"payload\r\n"

	dir := t.TempDir()
	if err := Save(dir, parseAttachment(t, raw), false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "attachment*"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d fallback files, want 1", len(matches))
	}
}

func TestSave_MissingDirectoryFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does", "not", "exist")
	if err := Save(dir, parseAttachment(t, pdfAttachment), false); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
