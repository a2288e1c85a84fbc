package queue

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a batch is submitted while another one runs
var ErrBusy = errors.New("conversion batch already running")

// errNoResult is reported when an encoder closes its channel without a result
var errNoResult = errors.New("encoder returned no result")

// JobError carries the context of a failed conversion job
type JobError struct {
	JobID      string
	Name       string
	SourcePath string
	Err        error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("convert %s as %q: %v", e.SourcePath, e.Name, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}
