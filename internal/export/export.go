package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ytget/voicepack/internal/format"
	"github.com/ytget/voicepack/internal/platform"
)

// Filename rules for bulk export
const (
	MaxFilenameLength = 50
	FallbackFilename  = "unnamed"
	ForbiddenChars    = `<>:"/\|?*`
)

// Source is the read side of the voice store
type Source interface {
	Get(name string) ([]byte, error)
	Names() []string
}

// Decoder turns a SILK payload into the target format
type Decoder interface {
	DecodeToContainer(ctx context.Context, speech []byte, target format.ExportFormat) ([]byte, time.Duration, error)
}

// Result describes the export of one entry
type Result struct {
	Name     string        `json:"name" yaml:"name"`
	Path     string        `json:"path" yaml:"path"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Err      error         `json:"-" yaml:"-"`
}

// OK reports whether the entry was written
func (r Result) OK() bool {
	return r.Err == nil
}

// Report is the outcome of a bulk export
type Report struct {
	Dir     string
	Format  format.ExportFormat
	Results []Result
}

// Succeeded returns the number of written entries
func (r Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of entries that could not be written
func (r Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Exporter writes entries from a Source to disk
type Exporter struct {
	source  Source
	decoder Decoder
	logger  *slog.Logger
}

// Option configures an Exporter
type Option func(*Exporter)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) { e.logger = logger }
}

// New creates an exporter
func New(source Source, decoder Decoder, opts ...Option) *Exporter {
	e := &Exporter{
		source:  source,
		decoder: decoder,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Entry exports name to destPath, choosing the format from its extension.
// A .silk target, or an entry that is not SILK at all, is written verbatim.
func (e *Exporter) Entry(ctx context.Context, name, destPath string) Result {
	target, err := format.FormatFromPath(destPath)
	if err != nil {
		return Result{Name: name, Path: destPath, Err: fmt.Errorf("export %q: %w", name, err)}
	}

	payload, err := e.source.Get(name)
	if err != nil {
		return Result{Name: name, Path: destPath, Err: err}
	}
	return e.write(ctx, name, payload, destPath, target)
}

func (e *Exporter) write(ctx context.Context, name string, payload []byte, destPath string, target format.ExportFormat) Result {
	result := Result{Name: name, Path: destPath}

	data := payload
	if !target.IsRaw() && format.IsSpeechCodec(payload) {
		var err error
		data, result.Duration, err = e.decoder.DecodeToContainer(ctx, payload, target)
		if err != nil {
			result.Err = fmt.Errorf("export %q: %w", name, err)
			return result
		}
	}

	if err := os.WriteFile(destPath, data, platform.DefaultFilePermissions); err != nil {
		result.Err = fmt.Errorf("export %q: %w", name, err)
		return result
	}
	e.logger.Debug("entry exported", "name", name, "path", destPath, "duration", result.Duration)
	return result
}

// All exports every entry into dir as target
func (e *Exporter) All(ctx context.Context, dir string, target format.ExportFormat) (Report, error) {
	return e.Entries(ctx, e.source.Names(), dir, target)
}

// Entries exports the named entries into dir with sanitized, unique file
// names. Entries that are not SILK are written verbatim with OpaqueExtension
// unless target is silk. Cancelling ctx marks the remaining entries as failed.
func (e *Exporter) Entries(ctx context.Context, names []string, dir string, target format.ExportFormat) (Report, error) {
	report := Report{Dir: dir, Format: target}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return report, fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	used := make(map[string]int)
	for _, name := range names {
		payload, getErr := e.source.Get(name)

		ext := target.FileExtension()
		if getErr == nil && !target.IsRaw() && !format.IsSpeechCodec(payload) {
			ext = format.OpaqueExtension
		}
		destPath := filepath.Join(dir, uniqueName(used, SanitizeFilename(name))+ext)

		var result Result
		switch {
		case ctx.Err() != nil:
			result = Result{Name: name, Path: destPath, Err: ctx.Err()}
		case getErr != nil:
			result = Result{Name: name, Path: destPath, Err: getErr}
		default:
			result = e.write(ctx, name, payload, destPath, target)
		}
		if result.Err != nil {
			e.logger.Warn("export failed", "name", name, "path", destPath, "error", result.Err)
		}
		report.Results = append(report.Results, result)
	}

	e.logger.Info("export complete",
		"dir", dir,
		"format", target,
		"succeeded", report.Succeeded(),
		"failed", report.Failed())
	return report, nil
}

// SanitizeFilename removes characters that are invalid in file names,
// truncates to MaxFilenameLength runes and falls back to FallbackFilename
func SanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(ForbiddenChars, r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	if runes := []rune(cleaned); len(runes) > MaxFilenameLength {
		cleaned = string(runes[:MaxFilenameLength])
	}

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return FallbackFilename
	}
	return cleaned
}

// uniqueName returns base, or base-N when base was already handed out
func uniqueName(used map[string]int, base string) string {
	key := strings.ToLower(base)
	used[key]++
	if used[key] == 1 {
		return base
	}
	for {
		candidate := base + "-" + strconv.Itoa(used[key])
		ckey := strings.ToLower(candidate)
		if used[ckey] == 0 {
			used[ckey] = 1
			return candidate
		}
		used[key]++
	}
}
