package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode indicates the SILK decoder failed or the payload is not SILK.
	ErrDecode = errors.New("speech decode failed")

	// ErrEncode indicates the SILK encoder failed.
	ErrEncode = errors.New("speech encode failed")

	// ErrTranscode indicates ffmpeg could not mux PCM into the target container.
	ErrTranscode = errors.New("transcode failed")

	// ErrSourceUnsupported indicates ffmpeg could not read or demux the source media.
	ErrSourceUnsupported = errors.New("source media unsupported")

	// ErrToolUnavailable indicates a required executable could not be started.
	ErrToolUnavailable = errors.New("tool unavailable")
)

// ToolError describes a failed tool invocation with the captured diagnostic output.
type ToolError struct {
	Op         string // decode, encode, demux, mux
	Tool       string // resolved executable
	Input      string // source path or a description of the input
	Diagnostic string // tail of the tool's output
	Kind       error  // one of the package sentinels
	Err        error  // underlying cause
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.Input, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Diagnostic != "" {
		msg += ": " + e.Diagnostic
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As.
func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
