package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/voicepack/internal/format"
	"github.com/ytget/voicepack/internal/platform"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestExportFormat(t *testing.T) {
	settings := NewSettings(test.NewApp())

	// Test default value
	if got := settings.GetExportFormat(); got != DefaultExportFormat {
		t.Errorf("Expected default export format %s, got %s", DefaultExportFormat, got)
	}

	if err := settings.SetExportFormat(".WAV"); err != nil {
		t.Fatalf("SetExportFormat() error = %v", err)
	}
	if got := settings.GetExportFormat(); got != format.ExportWAV {
		t.Errorf("Expected export format wav, got %s", got)
	}

	if err := settings.SetExportFormat("m p3"); err == nil {
		t.Error("Expected error for invalid export format")
	}
	if got := settings.GetExportFormat(); got != format.ExportWAV {
		t.Errorf("Invalid value should not replace wav, got %s", got)
	}
}

func TestExportDirectory(t *testing.T) {
	settings := NewSettings(test.NewApp())

	// Test default value
	dir := settings.GetExportDirectory()
	if dir == "" {
		t.Error("Export directory should not be empty")
	}
	if filepath.Base(dir) != platform.ExportSubdirectory && filepath.Base(dir) != FallbackExportDir {
		t.Errorf("Unexpected default export directory %s", dir)
	}

	customDir := "/custom/exports"
	settings.SetExportDirectory(customDir)
	if got := settings.GetExportDirectory(); got != customDir {
		t.Errorf("Expected export directory %s, got %s", customDir, got)
	}
}

func TestLanguage(t *testing.T) {
	settings := NewSettings(test.NewApp())

	// Test default value
	if lang := settings.GetLanguage(); lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	if err := settings.SetLanguage("zh"); err != nil {
		t.Fatalf("SetLanguage() error = %v", err)
	}
	if lang := settings.GetLanguage(); lang != "zh" {
		t.Errorf("Expected language 'zh', got %s", lang)
	}

	if err := settings.SetLanguage("ru"); err == nil {
		t.Error("Expected error for unsupported language")
	}
}

func TestGetLanguageOptions(t *testing.T) {
	settings := NewSettings(test.NewApp())
	options := settings.GetLanguageOptions()

	expectedLangs := []string{"system", "en", "zh"}
	for _, lang := range expectedLangs {
		if _, exists := options[lang]; !exists {
			t.Errorf("Expected language option '%s' to exist", lang)
		}
	}
	if len(options) != len(expectedLangs) {
		t.Errorf("Expected %d language options, got %d", len(expectedLangs), len(options))
	}
}

func TestToolPaths(t *testing.T) {
	settings := NewSettings(test.NewApp())

	if got := settings.GetToolPath(platform.ToolFFmpeg); got != "" {
		t.Errorf("Expected empty ffmpeg path, got %s", got)
	}
	if err := settings.SetToolPath(platform.ToolSilkEncoder, "/opt/silk/encoder"); err != nil {
		t.Fatalf("SetToolPath() error = %v", err)
	}
	if got := settings.GetToolPath(platform.ToolSilkEncoder); got != "/opt/silk/encoder" {
		t.Errorf("Expected encoder path, got %s", got)
	}
	if err := settings.SetToolPath("sox", "/usr/bin/sox"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Expected ErrUnknownKey, got %v", err)
	}
}

type recordingOverrider map[string]string

func (r recordingOverrider) SetOverride(tool, path string) {
	r[tool] = path
}

func TestApplyTo(t *testing.T) {
	dir := t.TempDir()
	ffmpeg := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(ffmpeg, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	settings := NewSettings(test.NewApp())
	settings.SetToolPath(platform.ToolFFmpeg, ffmpeg)
	settings.SetToolPath(platform.ToolSilkDecoder, filepath.Join(dir, "missing"))

	overrides := recordingOverrider{}
	settings.ApplyTo(overrides)

	if overrides[platform.ToolFFmpeg] != ffmpeg {
		t.Errorf("Expected ffmpeg override %s, got %q", ffmpeg, overrides[platform.ToolFFmpeg])
	}
	if _, ok := overrides[platform.ToolSilkDecoder]; ok {
		t.Error("Missing tool path should not become an override")
	}
	if len(overrides) != 1 {
		t.Errorf("Expected 1 override, got %d", len(overrides))
	}
}

func TestGetSet(t *testing.T) {
	settings := NewSettings(test.NewApp())

	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{key: KeyExportFormat, value: "silk", want: "silk"},
		{key: KeyExportDir, value: "/tmp/out", want: "/tmp/out"},
		{key: KeyLastContainer, value: "/tmp/pack.plist", want: "/tmp/pack.plist"},
		{key: KeyLanguage, value: "en", want: "en"},
		{key: KeyFFmpegPath, value: "/usr/bin/ffmpeg", want: "/usr/bin/ffmpeg"},
		{key: KeyLanguage, value: "klingon", wantErr: true},
		{key: "unknown", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := settings.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, err := settings.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%s) = %s, want %s", tt.key, got, tt.want)
			}
		})
	}

	if _, err := settings.Get("unknown"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get(unknown) error = %v, want ErrUnknownKey", err)
	}
}

func TestAll(t *testing.T) {
	settings := NewSettings(test.NewApp())
	values := settings.All()

	for _, key := range Keys() {
		if _, ok := values[key]; !ok {
			t.Errorf("All() is missing key %s", key)
		}
	}
	if values[KeyExportFormat] != DefaultExportFormat.String() {
		t.Errorf("All()[%s] = %s", KeyExportFormat, values[KeyExportFormat])
	}
}
