package platform

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func noPath(string) (string, error) {
	return "", errors.New("not found")
}

func TestLocator_Order(t *testing.T) {
	root := t.TempDir()
	exeDir := filepath.Join(root, "app")
	sysDir := filepath.Join(root, "usr", "bin")

	l := NewLocator(
		WithGOOS(OSLinux),
		WithExecutableDir(exeDir),
		WithSystemDirs(sysDir),
		WithLookPath(func(name string) (string, error) {
			return "/on/path/" + name, nil
		}),
	)

	// Nothing on disk: PATH wins
	if got := l.Resolve(ToolFFmpeg); got != "/on/path/ffmpeg" {
		t.Errorf("Expected PATH result, got %s", got)
	}

	// System install beats PATH
	touch(t, filepath.Join(sysDir, "ffmpeg"))
	if got := l.Resolve(ToolFFmpeg); got != filepath.Join(sysDir, "ffmpeg") {
		t.Errorf("Expected system path, got %s", got)
	}

	// Bundled beats system
	touch(t, filepath.Join(exeDir, BundledToolsDir, "ffmpeg"))
	if got := l.Resolve(ToolFFmpeg); got != filepath.Join(exeDir, BundledToolsDir, "ffmpeg") {
		t.Errorf("Expected bundled tools path, got %s", got)
	}

	touch(t, filepath.Join(exeDir, "ffmpeg"))
	if got := l.Resolve(ToolFFmpeg); got != filepath.Join(exeDir, "ffmpeg") {
		t.Errorf("Expected bundled path next to executable, got %s", got)
	}

	// Explicit override beats everything
	override := filepath.Join(root, "custom", "ffmpeg")
	touch(t, override)
	l.SetOverride(ToolFFmpeg, override)
	if got := l.Resolve(ToolFFmpeg); got != override {
		t.Errorf("Expected override, got %s", got)
	}

	// A missing override is skipped
	l.SetOverride(ToolFFmpeg, filepath.Join(root, "missing"))
	if got := l.Resolve(ToolFFmpeg); got != filepath.Join(exeDir, "ffmpeg") {
		t.Errorf("Expected fallback past missing override, got %s", got)
	}
}

func TestLocator_BareNameFallback(t *testing.T) {
	l := NewLocator(
		WithGOOS(OSWindows),
		WithExecutableDir(t.TempDir()),
		WithSystemDirs(),
		WithLookPath(noPath),
	)

	if got := l.Resolve(ToolSilkEncoder); got != "silk-encoder.exe" {
		t.Errorf("Expected bare windows name, got %s", got)
	}
}

func TestLocator_BundledDirs(t *testing.T) {
	mac := NewLocator(WithGOOS(OSDarwin), WithExecutableDir("/Apps/Voice.app/Contents/MacOS"), WithSystemDirs())
	dirs := mac.BundledDirs()
	want := filepath.Join("/Apps/Voice.app/Contents", MacOSFrameworksDir)
	if dirs[len(dirs)-1] != want {
		t.Errorf("Expected Frameworks dir %s, got %v", want, dirs)
	}

	win := NewLocator(WithGOOS(OSWindows), WithExecutableDir(`C:\voicepack`), WithSystemDirs())
	found := false
	for _, d := range win.BundledDirs() {
		if strings.HasSuffix(d, WindowsInternalDir) {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected _internal dir among %v", win.BundledDirs())
	}
}

func TestLocator_CommandEnv(t *testing.T) {
	exeDir := t.TempDir()
	l := NewLocator(WithGOOS(OSLinux), WithExecutableDir(exeDir), WithSystemDirs(), WithLookPath(noPath))

	t.Setenv("LD_LIBRARY_PATH", "/bundle/lib")
	t.Setenv("PATH", "/usr/bin")

	bundled := filepath.Join(exeDir, "ffmpeg")
	env := l.CommandEnv(bundled)
	for _, kv := range env {
		if strings.HasPrefix(kv, "LD_LIBRARY_PATH=") {
			t.Errorf("Expected LD_LIBRARY_PATH to be removed, got %s", kv)
		}
		if strings.HasPrefix(kv, "PATH=") && !strings.HasPrefix(kv, "PATH="+exeDir) {
			t.Errorf("Expected tool dir first on PATH, got %s", kv)
		}
	}

	system := l.CommandEnv("/usr/bin/ffmpeg")
	kept := false
	for _, kv := range system {
		if kv == "LD_LIBRARY_PATH=/bundle/lib" {
			kept = true
		}
	}
	if !kept {
		t.Error("Expected environment untouched for system tools")
	}
}
