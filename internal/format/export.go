package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ExportFormat is the target of an export: the raw SILK bitstream or any
// container the multimedia tool can mux (mp3 and wav at minimum).
type ExportFormat string

const (
	ExportSilk ExportFormat = "silk"
	ExportMP3  ExportFormat = "mp3"
	ExportWAV  ExportFormat = "wav"
)

// DefaultExportFormat is used when nothing else was chosen.
const DefaultExportFormat = ExportMP3

// SupportedSourceExtensions lists media extensions accepted for conversion.
var SupportedSourceExtensions = []string{
	".mp3", ".wav", ".m4a", ".aac", ".ogg", ".flac",
	".mp4", ".mov", ".avi", ".mkv", ".webm",
}

// ContainerExtension is the extension of the persisted voice container.
const ContainerExtension = ".plist"

// OpaqueExtension is used for entries written out without transcoding
// because they are not SILK.
const OpaqueExtension = ".audio"

// String returns the string representation of ExportFormat
func (f ExportFormat) String() string {
	return string(f)
}

// FileExtension returns the extension including the leading dot.
func (f ExportFormat) FileExtension() string {
	return "." + string(f)
}

// IsRaw reports whether the format is the verbatim SILK bitstream.
func (f ExportFormat) IsRaw() bool {
	return f == ExportSilk
}

// ParseExportFormat normalizes s ("MP3", ".wav", "silk") into an ExportFormat.
// Any alphanumeric extension is accepted; the muxer decides whether it can
// actually produce it.
func ParseExportFormat(s string) (ExportFormat, error) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if s == "" {
		return "", fmt.Errorf("empty export format")
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("invalid export format: %q", s)
		}
	}
	return ExportFormat(s), nil
}

// FormatFromPath derives the export format from a destination file name.
func FormatFromPath(path string) (ExportFormat, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("no file extension in %q", path)
	}
	return ParseExportFormat(ext)
}

// IsSupportedSource reports whether path has one of SupportedSourceExtensions.
func IsSupportedSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedSourceExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// IsContainer reports whether path looks like a voice container file.
func IsContainer(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ContainerExtension)
}
