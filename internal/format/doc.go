// Package format classifies stored payloads (SILK v3 speech bitstream or
// opaque bytes) and describes the export and source formats the rest of the
// app accepts.
package format
