package preview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ytget/voicepack/internal/format"
	"github.com/ytget/voicepack/internal/platform"
)

// Session file naming
const (
	SessionPrefix   = "voicepack-preview-"
	PreviewBaseName = "preview"
	OpaqueExtension = format.OpaqueExtension
)

// Source is the read side of the voice store
type Source interface {
	Get(name string) ([]byte, error)
}

// Decoder turns a SILK payload into the target format
type Decoder interface {
	DecodeToContainer(ctx context.Context, speech []byte, target format.ExportFormat) ([]byte, time.Duration, error)
}

// Previewer opens preview sessions. Sessions may run while a conversion batch
// is in progress; they only read from the store.
type Previewer struct {
	source      Source
	decoder     Decoder
	scratchRoot string
	openFile    func(path string) error
	logger      *slog.Logger
}

// Option configures a Previewer
type Option func(*Previewer)

// WithScratchRoot places session directories under dir
func WithScratchRoot(dir string) Option {
	return func(p *Previewer) { p.scratchRoot = dir }
}

// WithOpener replaces the function that hands a file to the OS player
func WithOpener(open func(path string) error) Option {
	return func(p *Previewer) { p.openFile = open }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Previewer) { p.logger = logger }
}

// New creates a previewer
func New(source Source, decoder Decoder, opts ...Option) *Previewer {
	p := &Previewer{
		source:   source,
		decoder:  decoder,
		openFile: platform.OpenFileWithDefaultApp,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Session is one decoded entry on disk
type Session struct {
	name     string
	dir      string
	path     string
	duration time.Duration
	once     sync.Once
	closeErr error
}

// Name returns the entry name
func (s *Session) Name() string { return s.name }

// Path returns the playable file
func (s *Session) Path() string { return s.path }

// Duration returns the decoded playing time, zero for opaque payloads
func (s *Session) Duration() time.Duration { return s.duration }

// Close removes the session's files. It is safe to call more than once.
func (s *Session) Close() error {
	s.once.Do(func() {
		s.closeErr = os.RemoveAll(s.dir)
	})
	return s.closeErr
}

// Open decodes name into a temporary WAV file. Payloads that are not SILK are
// written as-is for the player to sniff.
func (p *Previewer) Open(ctx context.Context, name string) (*Session, error) {
	payload, err := p.source.Get(name)
	if err != nil {
		return nil, err
	}

	data := payload
	ext := OpaqueExtension
	var duration time.Duration
	if format.IsSpeechCodec(payload) {
		data, duration, err = p.decoder.DecodeToContainer(ctx, payload, format.ExportWAV)
		if err != nil {
			return nil, fmt.Errorf("preview %q: %w", name, err)
		}
		ext = format.ExportWAV.FileExtension()
	}

	dir, err := os.MkdirTemp(p.scratchRoot, SessionPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("preview %q: create session directory: %w", name, err)
	}

	session := &Session{
		name:     name,
		dir:      dir,
		path:     filepath.Join(dir, PreviewBaseName+ext),
		duration: duration,
	}
	if err := os.WriteFile(session.path, data, platform.DefaultFilePermissions); err != nil {
		session.Close()
		return nil, fmt.Errorf("preview %q: %w", name, err)
	}

	p.logger.Debug("preview session opened", "name", name, "path", session.path, "duration", duration)
	return session, nil
}

// Play opens a session, hands it to the OS default player, blocks in wait
// and then removes the session files
func (p *Previewer) Play(ctx context.Context, name string, wait func()) error {
	session, err := p.Open(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			p.logger.Warn("failed to remove preview session", "path", session.Path(), "error", err)
		}
	}()

	if err := p.openFile(session.Path()); err != nil {
		return fmt.Errorf("play %q: %w", name, err)
	}
	if wait != nil {
		wait()
	}
	return nil
}
