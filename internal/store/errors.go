package store

import "errors"

var (
	// ErrFormat indicates the persisted container could not be parsed.
	ErrFormat = errors.New("malformed voice container")

	// ErrNotFound indicates the referenced entry does not exist.
	ErrNotFound = errors.New("entry not found")

	// ErrConflict indicates the target name is already taken.
	ErrConflict = errors.New("entry name already exists")

	// ErrPermissionDenied indicates the container file is not writable and could not be made writable.
	ErrPermissionDenied = errors.New("container file is not writable")
)
