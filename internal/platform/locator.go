package platform

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Tool names
const (
	ToolFFmpeg      = "ffmpeg"
	ToolSilkDecoder = "silk-decoder"
	ToolSilkEncoder = "silk-encoder"
)

// Bundled layout directories relative to the running executable
const (
	WindowsInternalDir = "_internal"
	MacOSFrameworksDir = "Frameworks"
	BundledToolsDir    = "tools"
	WindowsExeSuffix   = ".exe"
)

// Environment variables that leak a bundled app's libraries into child processes
var LibraryPathVariables = []string{"LD_LIBRARY_PATH", "DYLD_LIBRARY_PATH", "DYLD_FALLBACK_LIBRARY_PATH"}

// Locator resolves external tool executables.
//
// Resolution order is fixed: explicit override, bundled distribution
// directories, known system install locations, PATH, and finally the bare
// executable name so the failure surfaces when the tool is invoked.
type Locator struct {
	goos       string
	exeDir     string
	systemDirs []string
	overrides  map[string]string
	lookPath   func(string) (string, error)
	logger     *slog.Logger
}

// LocatorOption configures a Locator
type LocatorOption func(*Locator)

// WithExecutableDir sets the directory treated as the bundled distribution root
func WithExecutableDir(dir string) LocatorOption {
	return func(l *Locator) { l.exeDir = dir }
}

// WithSystemDirs replaces the known system install locations
func WithSystemDirs(dirs ...string) LocatorOption {
	return func(l *Locator) { l.systemDirs = append([]string{}, dirs...) }
}

// WithLookPath replaces the PATH lookup
func WithLookPath(fn func(string) (string, error)) LocatorOption {
	return func(l *Locator) { l.lookPath = fn }
}

// WithGOOS overrides the target operating system
func WithGOOS(goos string) LocatorOption {
	return func(l *Locator) { l.goos = goos }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) LocatorOption {
	return func(l *Locator) { l.logger = logger }
}

// NewLocator creates a locator for the running executable
func NewLocator(opts ...LocatorOption) *Locator {
	l := &Locator{
		goos:      runtime.GOOS,
		overrides: make(map[string]string),
		lookPath:  exec.LookPath,
		logger:    slog.Default(),
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		l.exeDir = filepath.Dir(exe)
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.systemDirs == nil {
		l.systemDirs = DefaultSystemDirs(l.goos)
	}
	return l
}

// SetOverride pins tool to an explicit path; an empty path clears it
func (l *Locator) SetOverride(tool, path string) {
	if path == "" {
		delete(l.overrides, tool)
		return
	}
	l.overrides[tool] = path
}

// ExecutableName returns the file name of tool on the target OS
func (l *Locator) ExecutableName(tool string) string {
	if l.goos == OSWindows && !strings.HasSuffix(strings.ToLower(tool), WindowsExeSuffix) {
		return tool + WindowsExeSuffix
	}
	return tool
}

// BundledDirs returns the distribution directories searched first
func (l *Locator) BundledDirs() []string {
	if l.exeDir == "" {
		return nil
	}
	dirs := []string{l.exeDir, filepath.Join(l.exeDir, BundledToolsDir)}
	switch l.goos {
	case OSWindows:
		dirs = append(dirs, filepath.Join(l.exeDir, WindowsInternalDir))
	case OSDarwin:
		// Contents/MacOS/<exe> -> Contents/Frameworks
		dirs = append(dirs, filepath.Join(filepath.Dir(l.exeDir), MacOSFrameworksDir))
	}
	return dirs
}

// Candidates returns every absolute path tried before PATH lookup, in order
func (l *Locator) Candidates(tool string) []string {
	name := l.ExecutableName(tool)
	var candidates []string
	if override, ok := l.overrides[tool]; ok {
		candidates = append(candidates, override)
	}
	for _, dir := range l.BundledDirs() {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	for _, dir := range l.systemDirs {
		if dir == "" {
			continue
		}
		candidates = append(candidates, filepath.Join(dir, name))
	}
	return candidates
}

// Resolve returns the first existing candidate for tool, the PATH match, or
// the bare executable name
func (l *Locator) Resolve(tool string) string {
	for _, candidate := range l.Candidates(tool) {
		if isExecutableFile(candidate) {
			l.logger.Debug("tool resolved", "tool", tool, "path", candidate)
			return candidate
		}
	}

	name := l.ExecutableName(tool)
	if path, err := l.lookPath(name); err == nil {
		l.logger.Debug("tool resolved from PATH", "tool", tool, "path", path)
		return path
	}

	l.logger.Debug("tool not found, using bare name", "tool", tool)
	return name
}

// IsBundled reports whether path lives in one of the bundled directories
func (l *Locator) IsBundled(path string) bool {
	dir := filepath.Dir(path)
	for _, bundled := range l.BundledDirs() {
		if filepath.Clean(bundled) == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// CommandEnv returns the environment for running the tool at toolPath.
// Bundled tools get the library path variables removed so the host app's
// libraries are not loaded by the child, and the tool directory is put first
// on PATH.
func (l *Locator) CommandEnv(toolPath string) []string {
	env := os.Environ()
	if !l.IsBundled(toolPath) {
		return env
	}

	out := make([]string, 0, len(env)+1)
	toolDir := filepath.Dir(toolPath)
	for _, kv := range env {
		key, value, _ := strings.Cut(kv, "=")
		if isLibraryPathVariable(key) {
			continue
		}
		if strings.EqualFold(key, "PATH") {
			kv = key + "=" + toolDir + string(os.PathListSeparator) + value
		}
		out = append(out, kv)
	}
	return out
}

// DefaultSystemDirs returns the known install locations for goos
func DefaultSystemDirs(goos string) []string {
	if goos == OSWindows {
		return []string{
			`C:\ProgramData\chocolatey\bin`,
			joinIfSet(os.Getenv("LOCALAPPDATA"), "Programs", "ffmpeg", "bin"),
			joinIfSet(os.Getenv("ProgramFiles"), "ffmpeg", "bin"),
			joinIfSet(os.Getenv("ProgramFiles(x86)"), "ffmpeg", "bin"),
			`C:\ffmpeg\bin`,
		}
	}
	return []string{
		"/opt/homebrew/bin", // Apple Silicon Homebrew
		"/usr/local/bin",    // Intel Homebrew and manual installs
		"/usr/bin",
	}
}

func joinIfSet(root string, elem ...string) string {
	if root == "" {
		return ""
	}
	return filepath.Join(append([]string{root}, elem...)...)
}

func isLibraryPathVariable(key string) bool {
	for _, v := range LibraryPathVariables {
		if key == v {
			return true
		}
	}
	return false
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return true
}
