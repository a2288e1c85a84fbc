package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fyne.io/fyne/v2"

	"github.com/ytget/voicepack/internal/format"
	"github.com/ytget/voicepack/internal/platform"
)

// AppID identifies the preferences store of the application
const AppID = "com.ytget.voicepack"

// Settings keys for Fyne preferences
const (
	KeyFFmpegPath      = "ffmpeg_path"
	KeySilkDecoderPath = "silk_decoder_path"
	KeySilkEncoderPath = "silk_encoder_path"
	KeyExportFormat    = "export_format"
	KeyExportDir       = "export_directory"
	KeyLastContainer   = "last_container"
	KeyLanguage        = "language"
)

// Default values
const (
	DefaultExportFormat = format.DefaultExportFormat
	DefaultLanguage     = "system"
	FallbackExportDir   = "voicepack-export"
)

// ErrUnknownKey is returned for keys Settings does not manage
var ErrUnknownKey = errors.New("unknown setting")

// ToolOverrider accepts explicit tool paths
type ToolOverrider interface {
	SetOverride(tool, path string)
}

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// Keys returns every managed key in sorted order
func Keys() []string {
	keys := []string{
		KeyFFmpegPath,
		KeySilkDecoderPath,
		KeySilkEncoderPath,
		KeyExportFormat,
		KeyExportDir,
		KeyLastContainer,
		KeyLanguage,
	}
	sort.Strings(keys)
	return keys
}

// toolKeys maps tool names to their override keys
var toolKeys = map[string]string{
	platform.ToolFFmpeg:      KeyFFmpegPath,
	platform.ToolSilkDecoder: KeySilkDecoderPath,
	platform.ToolSilkEncoder: KeySilkEncoderPath,
}

// GetToolPath returns the configured path for tool, empty when unset
func (s *Settings) GetToolPath(tool string) string {
	key, ok := toolKeys[tool]
	if !ok {
		return ""
	}
	return s.app.Preferences().String(key)
}

// SetToolPath sets the explicit path for tool; empty clears it
func (s *Settings) SetToolPath(tool, path string) error {
	key, ok := toolKeys[tool]
	if !ok {
		return fmt.Errorf("%w: tool %q", ErrUnknownKey, tool)
	}
	s.app.Preferences().SetString(key, path)
	return nil
}

// ApplyTo registers configured tool paths that exist on disk as overrides
func (s *Settings) ApplyTo(locator ToolOverrider) {
	for tool := range toolKeys {
		path := s.GetToolPath(tool)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		locator.SetOverride(tool, path)
	}
}

// GetExportFormat returns the configured bulk export format
func (s *Settings) GetExportFormat() format.ExportFormat {
	value := s.app.Preferences().String(KeyExportFormat)
	f, err := format.ParseExportFormat(value)
	if err != nil {
		s.app.Preferences().SetString(KeyExportFormat, DefaultExportFormat.String())
		return DefaultExportFormat
	}
	return f
}

// SetExportFormat sets the bulk export format
func (s *Settings) SetExportFormat(value string) error {
	f, err := format.ParseExportFormat(value)
	if err != nil {
		return err
	}
	s.app.Preferences().SetString(KeyExportFormat, f.String())
	return nil
}

// GetExportDirectory returns the configured export directory
func (s *Settings) GetExportDirectory() string {
	dir := s.app.Preferences().String(KeyExportDir)
	if dir == "" {
		defaultDir, err := platform.GetDefaultExportDir()
		if err != nil {
			defaultDir = filepath.Join(os.TempDir(), FallbackExportDir)
		}
		s.SetExportDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetExportDirectory sets the export directory
func (s *Settings) SetExportDirectory(dir string) {
	s.app.Preferences().SetString(KeyExportDir, dir)
}

// GetLastContainer returns the most recently opened container
func (s *Settings) GetLastContainer() string {
	return s.app.Preferences().String(KeyLastContainer)
}

// SetLastContainer remembers the most recently opened container
func (s *Settings) SetLastContainer(path string) {
	s.app.Preferences().SetString(KeyLastContainer, path)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if _, ok := s.GetLanguageOptions()[lang]; !ok {
		s.app.Preferences().SetString(KeyLanguage, DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) error {
	if _, ok := s.GetLanguageOptions()[lang]; !ok {
		return fmt.Errorf("unsupported language: %q", lang)
	}
	s.app.Preferences().SetString(KeyLanguage, lang)
	return nil
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"zh":     "中文",
	}
}

// Get returns the effective value of key
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case KeyFFmpegPath, KeySilkDecoderPath, KeySilkEncoderPath, KeyLastContainer:
		return s.app.Preferences().String(key), nil
	case KeyExportFormat:
		return s.GetExportFormat().String(), nil
	case KeyExportDir:
		return s.GetExportDirectory(), nil
	case KeyLanguage:
		return s.GetLanguage(), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Set validates and stores value under key
func (s *Settings) Set(key, value string) error {
	switch key {
	case KeyFFmpegPath, KeySilkDecoderPath, KeySilkEncoderPath, KeyLastContainer:
		s.app.Preferences().SetString(key, value)
		return nil
	case KeyExportFormat:
		return s.SetExportFormat(value)
	case KeyExportDir:
		s.SetExportDirectory(value)
		return nil
	case KeyLanguage:
		return s.SetLanguage(value)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// All returns every key with its effective value
func (s *Settings) All() map[string]string {
	values := make(map[string]string, len(Keys()))
	for _, key := range Keys() {
		value, _ := s.Get(key)
		values[key] = value
	}
	return values
}
