package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ytget/voicepack/internal/format"
	"github.com/ytget/voicepack/internal/platform"
)

// Canonical PCM intermediate
const (
	SampleRate     = 24000
	Channels       = 1
	BytesPerSample = 2
	SampleFormat   = "s16le"
)

// SILK tool flags
const (
	SilkSampleRateFlag = "-Fs_API"
	SilkBitRateFlag    = "-rate"
	SilkTencentFlag    = "-tencent"
	SilkBitRate        = 24000
)

// Scratch file names
const (
	ScratchPrefix  = "voicepack-"
	SpeechFileName = "speech.silk"
	PcmFileName    = "audio.pcm"
	OutputBaseName = "output"
)

// Operation names used in errors and logs
const (
	OpDecode = "decode"
	OpEncode = "encode"
	OpDemux  = "demux"
	OpMux    = "mux"
)

// MaxDiagnosticLength caps the tool output kept in errors
const MaxDiagnosticLength = 2048

var errNotSpeech = errors.New("payload has no SILK v3 signature")

// Locator resolves an external tool name to an executable path.
type Locator interface {
	Resolve(tool string) string
}

// envProvider is implemented by locators that prepare a child environment.
type envProvider interface {
	CommandEnv(toolPath string) []string
}

// EncodeResult is the outcome of an asynchronous encode
type EncodeResult struct {
	Payload []byte
	Err     error
}

// Bridge runs the external codec tools
type Bridge struct {
	locator     Locator
	scratchRoot string
	logger      *slog.Logger
}

// Option configures a Bridge
type Option func(*Bridge)

// WithScratchRoot places scratch directories under dir instead of the OS temp dir
func WithScratchRoot(dir string) Option {
	return func(b *Bridge) { b.scratchRoot = dir }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// NewBridge creates a codec bridge resolving tools through locator
func NewBridge(locator Locator, opts ...Option) *Bridge {
	b := &Bridge{
		locator: locator,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// DecodeToPcm decodes a SILK bitstream into canonical PCM
func (b *Bridge) DecodeToPcm(ctx context.Context, speech []byte) ([]byte, time.Duration, error) {
	if !format.IsSpeechCodec(speech) {
		return nil, 0, &ToolError{Op: OpDecode, Input: "payload", Kind: ErrDecode, Err: errNotSpeech}
	}

	var pcm []byte
	err := b.withScratch(func(dir string) error {
		in := filepath.Join(dir, SpeechFileName)
		out := filepath.Join(dir, PcmFileName)
		if err := os.WriteFile(in, speech, platform.DefaultFilePermissions); err != nil {
			return fmt.Errorf("write scratch input: %w", err)
		}

		if err := b.run(ctx, OpDecode, platform.ToolSilkDecoder, ErrDecode, "payload", BuildDecoderArgs(in, out)...); err != nil {
			return err
		}

		data, err := readOutput(out)
		if err != nil {
			return &ToolError{Op: OpDecode, Input: "payload", Kind: ErrDecode, Err: err}
		}
		pcm = data
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return pcm, PCMDuration(len(pcm)), nil
}

// PcmToContainer wraps canonical PCM into the target container
func (b *Bridge) PcmToContainer(ctx context.Context, pcm []byte, target format.ExportFormat) ([]byte, error) {
	if target.IsRaw() {
		return nil, &ToolError{Op: OpMux, Input: "pcm", Kind: ErrTranscode, Err: fmt.Errorf("%s is not a container format", target)}
	}

	var data []byte
	err := b.withScratch(func(dir string) error {
		in := filepath.Join(dir, PcmFileName)
		out := filepath.Join(dir, OutputBaseName+target.FileExtension())
		if err := os.WriteFile(in, pcm, platform.DefaultFilePermissions); err != nil {
			return fmt.Errorf("write scratch input: %w", err)
		}

		if err := b.run(ctx, OpMux, platform.ToolFFmpeg, ErrTranscode, "pcm", BuildFFmpegMuxArgs(in, out)...); err != nil {
			return err
		}

		result, err := readOutput(out)
		if err != nil {
			return &ToolError{Op: OpMux, Input: "pcm", Kind: ErrTranscode, Err: err}
		}
		data = result
		return nil
	})
	return data, err
}

// DecodeToContainer exports a SILK payload to target; silk is returned verbatim
func (b *Bridge) DecodeToContainer(ctx context.Context, speech []byte, target format.ExportFormat) ([]byte, time.Duration, error) {
	if target.IsRaw() {
		return bytes.Clone(speech), 0, nil
	}

	pcm, duration, err := b.DecodeToPcm(ctx, speech)
	if err != nil {
		return nil, 0, err
	}

	data, err := b.PcmToContainer(ctx, pcm, target)
	if err != nil {
		return nil, 0, err
	}
	return data, duration, nil
}

// EncodeFromMedia converts any media file ffmpeg can read into a SILK bitstream
func (b *Bridge) EncodeFromMedia(ctx context.Context, mediaPath string) ([]byte, error) {
	info, err := os.Stat(mediaPath)
	if err != nil {
		return nil, &ToolError{Op: OpDemux, Input: mediaPath, Kind: ErrSourceUnsupported, Err: err}
	}
	if info.IsDir() {
		return nil, &ToolError{Op: OpDemux, Input: mediaPath, Kind: ErrSourceUnsupported, Err: errors.New("is a directory")}
	}

	var speech []byte
	err = b.withScratch(func(dir string) error {
		pcm := filepath.Join(dir, PcmFileName)
		out := filepath.Join(dir, SpeechFileName)

		if err := b.run(ctx, OpDemux, platform.ToolFFmpeg, ErrSourceUnsupported, mediaPath, BuildFFmpegDemuxArgs(mediaPath, pcm)...); err != nil {
			return err
		}
		if _, err := readOutput(pcm); err != nil {
			return &ToolError{Op: OpDemux, Input: mediaPath, Kind: ErrSourceUnsupported, Err: fmt.Errorf("no audio decoded: %w", err)}
		}

		if err := b.run(ctx, OpEncode, platform.ToolSilkEncoder, ErrEncode, mediaPath, BuildEncoderArgs(pcm, out)...); err != nil {
			return err
		}

		data, err := readOutput(out)
		if err != nil {
			return &ToolError{Op: OpEncode, Input: mediaPath, Kind: ErrEncode, Err: err}
		}
		if !format.IsSpeechCodec(data) {
			return &ToolError{Op: OpEncode, Input: mediaPath, Kind: ErrEncode, Err: errNotSpeech}
		}
		speech = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return speech, nil
}

// EncodeFromMediaAsync runs EncodeFromMedia in its own goroutine. The returned
// channel yields exactly one result and is then closed.
func (b *Bridge) EncodeFromMediaAsync(ctx context.Context, mediaPath string) <-chan EncodeResult {
	ch := make(chan EncodeResult, 1)
	go func() {
		defer close(ch)
		payload, err := b.EncodeFromMedia(ctx, mediaPath)
		ch <- EncodeResult{Payload: payload, Err: err}
	}()
	return ch
}

// BuildDecoderArgs builds the SILK decoder arguments
func BuildDecoderArgs(inputPath, outputPath string) []string {
	return []string{
		inputPath,
		outputPath,
		SilkSampleRateFlag, strconv.Itoa(SampleRate),
	}
}

// BuildEncoderArgs builds the SILK encoder arguments (Tencent dialect)
func BuildEncoderArgs(inputPath, outputPath string) []string {
	return []string{
		inputPath,
		outputPath,
		SilkSampleRateFlag, strconv.Itoa(SampleRate),
		SilkBitRateFlag, strconv.Itoa(SilkBitRate),
		SilkTencentFlag,
	}
}

// BuildFFmpegDemuxArgs builds ffmpeg arguments converting any input to canonical PCM
func BuildFFmpegDemuxArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-vn",              // Drop video streams
		"-f", SampleFormat, // Raw signed 16-bit little-endian
		"-ar", strconv.Itoa(SampleRate), // Sample rate
		"-ac", strconv.Itoa(Channels), // Mono
		outputPath,
	}
}

// BuildFFmpegMuxArgs builds ffmpeg arguments wrapping canonical PCM into the
// container implied by the output extension
func BuildFFmpegMuxArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-f", SampleFormat,
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		"-i", inputPath,
		outputPath,
	}
}

// PCMDuration returns the playing time of n bytes of canonical PCM
func PCMDuration(n int) time.Duration {
	samples := int64(n / (BytesPerSample * Channels))
	return time.Duration(samples) * time.Second / SampleRate
}

// run invokes tool and maps failures onto kind
func (b *Bridge) run(ctx context.Context, op, tool string, kind error, input string, args ...string) error {
	path := b.locator.Resolve(tool)

	cmd := exec.CommandContext(ctx, path, args...)
	if p, ok := b.locator.(envProvider); ok {
		cmd.Env = p.CommandEnv(path)
	}
	configureCommand(cmd)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	b.logger.Debug("running tool", "op", op, "tool", path, "args", args)
	err := cmd.Run()
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return &ToolError{Op: op, Tool: path, Input: input, Kind: ErrToolUnavailable, Err: err}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	return &ToolError{
		Op:         op,
		Tool:       path,
		Input:      input,
		Diagnostic: diagnostic(output.Bytes()),
		Kind:       kind,
		Err:        err,
	}
}

// withScratch runs fn with a private directory that is always removed
func (b *Bridge) withScratch(fn func(dir string) error) error {
	dir, err := os.MkdirTemp(b.scratchRoot, ScratchPrefix+"*")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			b.logger.Warn("failed to remove scratch directory", "dir", dir, "error", err)
		}
	}()
	return fn(dir)
}

func readOutput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tool output: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("tool produced empty output")
	}
	return data, nil
}

func diagnostic(output []byte) string {
	text := strings.TrimSpace(string(output))
	if len(text) > MaxDiagnosticLength {
		start := len(text) - MaxDiagnosticLength
		for start < len(text) && !utf8.RuneStart(text[start]) {
			start++
		}
		text = "..." + text[start:]
	}
	return text
}
