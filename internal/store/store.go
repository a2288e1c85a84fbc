package store

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"howett.net/plist"
	"lukechampine.com/blake3"

	"github.com/ytget/voicepack/internal/format"
	"github.com/ytget/voicepack/internal/platform"
)

// EntryInfo describes one entry without exposing its payload
type EntryInfo struct {
	Name        string `json:"name" yaml:"name"`
	Size        int    `json:"size" yaml:"size"`
	Kind        string `json:"kind" yaml:"kind"`
	Fingerprint string `json:"blake3" yaml:"blake3"`
}

// Store is the in-memory voice container. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	entries  map[string][]byte
	modified bool
}

// New returns an empty, unmodified container
func New() *Store {
	return &Store{entries: make(map[string][]byte)}
}

// Load reads and parses the container at path
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read container %s: %w", path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse container %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a plist dictionary of name to base64 string (or data) values
func Parse(data []byte) (*Store, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrFormat)
	}

	var raw map[string]interface{}
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	s := New()
	for name, value := range raw {
		switch v := value.(type) {
		case string:
			payload, err := base64.StdEncoding.DecodeString(stripSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%w: entry %q: %v", ErrFormat, name, err)
			}
			s.entries[name] = payload
		case []byte:
			s.entries[name] = bytes.Clone(v)
		default:
			return nil, fmt.Errorf("%w: entry %q has unsupported type %T", ErrFormat, name, value)
		}
	}
	return s, nil
}

// Get returns a copy of the payload stored under name
func (s *Store) Get(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", name, ErrNotFound)
	}
	return cloneNonNil(payload), nil
}

// Has reports whether name exists
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[name]
	return ok
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Names returns all entry names in sorted order
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Modified reports whether the container changed since load or the last save
func (s *Store) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Put inserts or overwrites name
func (s *Store) Put(name string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[name] = cloneNonNil(payload)
	s.modified = true
}

// Rename moves the payload of oldName to newName
func (s *Store) Rename(oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, ok := s.entries[oldName]
	if !ok {
		return fmt.Errorf("rename %q: %w", oldName, ErrNotFound)
	}
	if oldName == newName {
		return nil
	}
	if _, taken := s.entries[newName]; taken {
		return fmt.Errorf("rename %q to %q: %w", oldName, newName, ErrConflict)
	}

	s.entries[newName] = payload
	delete(s.entries, oldName)
	s.modified = true
	return nil
}

// Delete removes every named entry. If any name is missing nothing is removed.
func (s *Store) Delete(names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		if _, ok := s.entries[name]; !ok {
			return fmt.Errorf("delete %q: %w", name, ErrNotFound)
		}
	}
	if len(names) == 0 {
		return nil
	}

	for _, name := range names {
		delete(s.entries, name)
	}
	s.modified = true
	return nil
}

// Info describes a single entry
func (s *Store) Info(name string) (EntryInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.entries[name]
	if !ok {
		return EntryInfo{}, fmt.Errorf("info %q: %w", name, ErrNotFound)
	}
	return describe(name, payload), nil
}

// List describes all entries sorted by name
func (s *Store) List() []EntryInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]EntryInfo, 0, len(s.entries))
	for name, payload := range s.entries {
		infos = append(infos, describe(name, payload))
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Fingerprint returns the BLAKE3-256 digest of the payload as hex
func (s *Store) Fingerprint(name string) (string, error) {
	info, err := s.Info(name)
	if err != nil {
		return "", err
	}
	return info.Fingerprint, nil
}

// Marshal serializes the full mapping as an XML plist
func (s *Store) Marshal() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.marshalLocked()
}

// Save writes the container to path and clears the modified flag. On failure
// the in-memory state and the modified flag are left untouched.
func (s *Store) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.marshalLocked()
	if err != nil {
		return fmt.Errorf("failed to encode container: %w", err)
	}

	if err := platform.EnsureWritable(path); err != nil {
		return fmt.Errorf("save %s: %w: %v", path, ErrPermissionDenied, err)
	}

	if err := writeFileAtomic(path, data); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("save %s: %w: %v", path, ErrPermissionDenied, err)
		}
		return fmt.Errorf("save %s: %w", path, err)
	}

	s.modified = false
	return nil
}

func (s *Store) marshalLocked() ([]byte, error) {
	encoded := make(map[string]string, len(s.entries))
	for name, payload := range s.entries {
		encoded[name] = base64.StdEncoding.EncodeToString(payload)
	}
	return plist.MarshalIndent(encoded, plist.XMLFormat, "\t")
}

func describe(name string, payload []byte) EntryInfo {
	sum := blake3.Sum256(payload)
	return EntryInfo{
		Name:        name,
		Size:        len(payload),
		Kind:        format.Classify(payload).String(),
		Fingerprint: hex.EncodeToString(sum[:]),
	}
}

// writeFileAtomic writes data to a temp file beside path and renames it over
// path, keeping the existing file mode
func writeFileAtomic(path string, data []byte) (err error) {
	mode := fs.FileMode(platform.DefaultFilePermissions)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func cloneNonNil(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
