// Package export writes voice entries out as files: the raw SILK bitstream
// verbatim, or any container the multimedia tool can mux (mp3, wav, ...).
package export
