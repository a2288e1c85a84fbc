// Package store holds the voice container: a mapping of unique entry names to
// opaque audio payloads, persisted as a plist dictionary of base64 strings.
//
// A Store tracks whether it changed since it was loaded or last saved. Save
// writes the whole mapping to a temporary file next to the target and renames
// it into place, so the file on disk is either the old or the new state.
package store
