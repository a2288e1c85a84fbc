package model

import (
	"errors"
	"testing"
	"time"
)

func TestProposedName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/music/hello world.mp3", "hello world"},
		{`C:\clips\greeting.wav`, "greeting"},
		{"clip.tar.gz", "clip.tar"},
		{"noext", "noext"},
		{"/dir/.hidden", ""},
		{"", ""},
	}

	for _, test := range tests {
		result := ProposedName(test.path)
		if result != test.expected {
			t.Errorf("ProposedName(%q) = %q, expected %q", test.path, result, test.expected)
		}
	}
}

func TestNewConversionJob(t *testing.T) {
	job := NewConversionJob("convert-1", "/tmp/voice.m4a")

	if job.Status != JobStatusPending {
		t.Errorf("Expected status Pending, got %s", job.Status)
	}
	if job.ProposedName != "voice" {
		t.Errorf("Expected proposed name 'voice', got '%s'", job.ProposedName)
	}
	if job.GetDisplayName() != "voice" {
		t.Errorf("Expected display name 'voice', got '%s'", job.GetDisplayName())
	}

	job.Name = "hi"
	if job.GetDisplayName() != "hi" {
		t.Errorf("Expected display name 'hi', got '%s'", job.GetDisplayName())
	}
}

func TestConversionJob_Elapsed(t *testing.T) {
	job := &ConversionJob{}
	if job.Elapsed() != 0 {
		t.Error("Expected zero elapsed for a job that never ran")
	}

	start := time.Now()
	job.StartedAt = start
	job.FinishedAt = start.Add(1500 * time.Millisecond)
	if job.Elapsed() != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s, got %v", job.Elapsed())
	}
}

func TestBatchSummary(t *testing.T) {
	jobs := []*ConversionJob{
		{ID: "1", Status: JobStatusSucceeded},
		{ID: "2", Status: JobStatusFailed, Err: errors.New("boom")},
		{ID: "3", Status: JobStatusSkipped},
		{ID: "4", Status: JobStatusSucceeded},
	}

	summary := BatchSummary{Total: len(jobs), Jobs: jobs}
	for _, job := range jobs {
		summary.Add(job)
	}

	if summary.Succeeded != 2 || summary.Failed != 1 || summary.Skipped != 1 {
		t.Errorf("Unexpected counts: %+v", summary)
	}
	if summary.Completed() != 3 {
		t.Errorf("Expected 3 completed, got %d", summary.Completed())
	}

	failures := summary.Failures()
	if len(failures) != 1 || failures[0].ID != "2" {
		t.Errorf("Expected job 2 as the only failure, got %v", failures)
	}
}
