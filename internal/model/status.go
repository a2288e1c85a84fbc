package model

// JobStatus represents the state of a single conversion job
type JobStatus string

const (
	// JobStatusPending means the job is queued and nothing was asked yet
	JobStatusPending JobStatus = "Pending"

	// JobStatusAwaitingName means the caller is being asked for an entry name
	JobStatusAwaitingName JobStatus = "AwaitingName"

	// JobStatusNameConfirmed means a non-empty name was chosen
	JobStatusNameConfirmed JobStatus = "NameConfirmed"

	// JobStatusAwaitingOverwrite means the name exists and the caller must confirm replacing it
	JobStatusAwaitingOverwrite JobStatus = "AwaitingOverwriteConfirmation"

	// JobStatusSkipped means the caller declined naming or overwriting
	JobStatusSkipped JobStatus = "Skipped"

	// JobStatusInProgress means the encode is running
	JobStatusInProgress JobStatus = "InProgress"

	// JobStatusSucceeded means the payload was stored
	JobStatusSucceeded JobStatus = "Succeeded"

	// JobStatusFailed means the encode failed with an error
	JobStatusFailed JobStatus = "Failed"
)

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsActive returns true while an encode is in flight
func (s JobStatus) IsActive() bool {
	return s == JobStatusInProgress
}

// IsWaiting returns true while the job waits on the caller
func (s JobStatus) IsWaiting() bool {
	return s == JobStatusAwaitingName || s == JobStatusAwaitingOverwrite
}

// IsTerminal returns true if the job is finished (skipped, succeeded, or failed)
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSkipped || s == JobStatusSucceeded || s == JobStatusFailed
}
