package model

import "fmt"

// ReadError reports an input file that could not be opened or parsed
// as a message. The run continues with the next input.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failed attachment write. Remaining attachments
// of the same input are skipped; the run continues.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write attachments of %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Result is the outcome of processing a single input file.
type Result struct {
	Path  string
	Count int
	Err   error
}

func (r Result) Failed() bool { return r.Err != nil }
