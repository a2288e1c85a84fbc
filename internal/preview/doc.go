// Package preview decodes single entries into short-lived WAV files for
// listening. Every session owns a private temp directory that Close removes.
package preview
