package model

// Package model defines the conversion job, its status enum and the batch
// summary shared by the queue and the command-line shell. Jobs carry explicit
// state transitions so callers can render progress from update callbacks.
