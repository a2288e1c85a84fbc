package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ytget/voicepack/internal/format"
	"github.com/ytget/voicepack/internal/store"
)

// UntitledName is the title of a workspace without a file
const UntitledName = "untitled"

// ModifiedMarker is appended to the title of a workspace with unsaved changes
const ModifiedMarker = "*"

// ErrNoPath is returned by Save when the workspace has no file yet
var ErrNoPath = errors.New("workspace has no file path")

// Decision answers the unsaved-changes question on close
type Decision int

const (
	DecisionCancel Decision = iota
	DecisionSave
	DecisionDiscard
)

// String returns the string representation of Decision
func (d Decision) String() string {
	switch d {
	case DecisionSave:
		return "save"
	case DecisionDiscard:
		return "discard"
	default:
		return "cancel"
	}
}

// Workspace is a store plus the path it is persisted to
type Workspace struct {
	mu     sync.Mutex
	path   string
	store  *store.Store
	logger *slog.Logger
}

// New returns an empty workspace without a file
func New() *Workspace {
	return &Workspace{store: store.New(), logger: slog.Default()}
}

// Open loads the container at path. A missing file yields an empty workspace
// bound to path that is created on the first save.
func Open(path string) (*Workspace, error) {
	if path == "" {
		return New(), nil
	}

	s, err := store.Load(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		s = store.New()
	default:
		return nil, err
	}

	return &Workspace{path: path, store: s, logger: slog.Default()}, nil
}

// SetLogger sets the logger
func (w *Workspace) SetLogger(logger *slog.Logger) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logger = logger
}

// Store returns the underlying voice store
func (w *Workspace) Store() *store.Store {
	return w.store
}

// Path returns the bound file path, empty for an untitled workspace
func (w *Workspace) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Modified reports whether there are unsaved changes
func (w *Workspace) Modified() bool {
	return w.store.Modified()
}

// Title returns the file base name, with a marker when modified
func (w *Workspace) Title() string {
	title := UntitledName
	if path := w.Path(); path != "" {
		title = filepath.Base(path)
	}
	if w.store.Modified() {
		title += ModifiedMarker
	}
	return title
}

// Save persists the store to the bound path
func (w *Workspace) Save() error {
	path := w.Path()
	if path == "" {
		return ErrNoPath
	}
	if err := w.store.Save(path); err != nil {
		return err
	}
	w.logger.Info("container saved", "path", path, "entries", w.store.Len())
	return nil
}

// ContainerPath returns path with the container extension appended when missing
func ContainerPath(path string) string {
	if path == "" || strings.EqualFold(filepath.Ext(path), format.ContainerExtension) {
		return path
	}
	return path + format.ContainerExtension
}

// SaveAs persists the store to path and binds the workspace to it on success.
// The container extension is appended when missing.
func (w *Workspace) SaveAs(path string) error {
	if path == "" {
		return ErrNoPath
	}
	path = ContainerPath(path)

	if err := w.store.Save(path); err != nil {
		return err
	}

	w.mu.Lock()
	w.path = path
	logger := w.logger
	w.mu.Unlock()

	logger.Info("container saved", "path", path, "entries", w.store.Len())
	return nil
}

// Close asks decide what to do with unsaved changes. It reports whether the
// workspace may be closed; a failed save keeps it open.
func (w *Workspace) Close(decide func() Decision) (bool, error) {
	if !w.store.Modified() {
		return true, nil
	}

	decision := DecisionCancel
	if decide != nil {
		decision = decide()
	}

	switch decision {
	case DecisionSave:
		if err := w.Save(); err != nil {
			return false, fmt.Errorf("failed to save before closing: %w", err)
		}
		return true, nil
	case DecisionDiscard:
		w.logger.Info("discarding unsaved changes", "path", w.Path())
		return true, nil
	default:
		return false, nil
	}
}

// Exists reports whether the bound file exists on disk
func (w *Workspace) Exists() bool {
	path := w.Path()
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
