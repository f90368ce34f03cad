package stats

import (
	"errors"
	"testing"

	"github.com/emlkit/eml-attachments/model"
)

func TestCollector_Record(t *testing.T) {
	c := NewCollector()

	c.Record(model.Result{Path: "a.eml", Count: 2})
	c.Record(model.Result{Path: "b.eml"})
	c.Record(model.Result{Path: "c.eml", Err: &model.ReadError{Path: "c.eml", Err: errors.New("open")}})
	c.Record(model.Result{Path: "d.eml", Err: &model.WriteError{Path: "d.eml", Err: errors.New("disk full")}})

	s := c.Snapshot()
	if s.Files != 4 {
		t.Errorf("Files = %d, want 4", s.Files)
	}
	if s.Extracted != 2 {
		t.Errorf("Extracted = %d, want 2", s.Extracted)
	}
	if s.Empty != 1 {
		t.Errorf("Empty = %d, want 1", s.Empty)
	}
	if s.ReadErrors != 1 {
		t.Errorf("ReadErrors = %d, want 1", s.ReadErrors)
	}
	if s.WriteErrors != 1 {
		t.Errorf("WriteErrors = %d, want 1", s.WriteErrors)
	}
	if s.LastError == nil {
		t.Error("LastError not recorded")
	}
}

func TestSummary_LogAttrs(t *testing.T) {
	s := Summary{Files: 1}
	if attrs := s.LogAttrs(); len(attrs) != 10 {
		t.Errorf("got %d attrs, want 10", len(attrs))
	}

	s.LastError = errors.New("boom")
	if attrs := s.LogAttrs(); len(attrs) != 12 {
		t.Errorf("got %d attrs with error, want 12", len(attrs))
	}
}
