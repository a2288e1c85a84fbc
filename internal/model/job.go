package model

import (
	"path/filepath"
	"strings"
	"time"
)

// ConversionJob turns one source media file into one store entry
type ConversionJob struct {
	ID           string
	SourcePath   string
	ProposedName string    // pre-filled name, the source base name
	Name         string    // confirmed entry name
	Overwrite    bool      // caller confirmed replacing an existing entry
	Status       JobStatus
	Payload      []byte    // SILK bitstream on success
	Err          error     // captured failure
	LastError    string    // Err as text for display
	StartedAt    time.Time // when the encode was dispatched
	FinishedAt   time.Time // when the job reached a terminal state
}

// NewConversionJob creates a pending job for sourcePath
func NewConversionJob(id, sourcePath string) *ConversionJob {
	return &ConversionJob{
		ID:           id,
		SourcePath:   sourcePath,
		ProposedName: ProposedName(sourcePath),
		Status:       JobStatusPending,
	}
}

// ProposedName returns the base name of path without its extension
func ProposedName(path string) string {
	// Support both / and \ separators regardless of the host OS
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(parts) == 0 {
		return ""
	}
	base := parts[len(parts)-1]
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GetDisplayName returns the confirmed name, the proposed name, or the source path
func (j *ConversionJob) GetDisplayName() string {
	if j.Name != "" {
		return j.Name
	}
	if j.ProposedName != "" {
		return j.ProposedName
	}
	return j.SourcePath
}

// Elapsed returns how long the encode took, zero if it never ran
func (j *ConversionJob) Elapsed() time.Duration {
	if j.StartedAt.IsZero() || j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

// BatchSummary is the batch-complete signal
type BatchSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Jobs      []*ConversionJob
}

// Add counts a terminal job
func (b *BatchSummary) Add(job *ConversionJob) {
	switch job.Status {
	case JobStatusSucceeded:
		b.Succeeded++
	case JobStatusFailed:
		b.Failed++
	case JobStatusSkipped:
		b.Skipped++
	}
}

// Completed returns the number of jobs that reached the encoder
func (b *BatchSummary) Completed() int {
	return b.Succeeded + b.Failed
}

// Failures returns the failed jobs in submission order
func (b *BatchSummary) Failures() []*ConversionJob {
	var failed []*ConversionJob
	for _, job := range b.Jobs {
		if job.Status == JobStatusFailed {
			failed = append(failed, job)
		}
	}
	return failed
}
