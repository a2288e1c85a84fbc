package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ytget/voicepack/internal/format"
	"github.com/ytget/voicepack/internal/store"
)

var errCorrupt = errors.New("corrupt bitstream")

// fakeDecoder prefixes the format name and fails on payloads containing CORRUPT
type fakeDecoder struct {
	calls int
}

func (d *fakeDecoder) DecodeToContainer(ctx context.Context, speech []byte, target format.ExportFormat) ([]byte, time.Duration, error) {
	d.calls++
	if bytes.Contains(speech, []byte("CORRUPT")) {
		return nil, 0, errCorrupt
	}
	out := append([]byte(strings.ToUpper(target.String())+":"), speech[format.SignatureLength:]...)
	return out, time.Second, nil
}

func silk(body string) []byte {
	return append(format.Signature[:], body...)
}

func newStore(entries map[string][]byte) *store.Store {
	s := store.New()
	for name, payload := range entries {
		s.Put(name, payload)
	}
	return s
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello", "hello"},
		{`a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"  padded  ", "padded"},
		{"", "unnamed"},
		{`<>:"/\|?*`, "unnamed"},
		{"tab\there", "tabhere"},
		{strings.Repeat("x", 60), strings.Repeat("x", 50)},
		{strings.Repeat("语", 55), strings.Repeat("语", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUniqueName(t *testing.T) {
	used := make(map[string]int)
	got := []string{
		uniqueName(used, "a"),
		uniqueName(used, "a"),
		uniqueName(used, "a-2"),
		uniqueName(used, "A"),
	}
	want := []string{"a", "a-2", "a-2-2", "A-3"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("uniqueName #%d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEntry(t *testing.T) {
	s := newStore(map[string][]byte{
		"voice":  silk("abc"),
		"opaque": []byte("ID3 mp3 data"),
		"broken": silk("CORRUPT"),
	})

	tests := []struct {
		name     string
		entry    string
		file     string
		want     []byte
		decoded  bool
		wantErr  error
		anyError bool
	}{
		{name: "silk verbatim", entry: "voice", file: "out.silk", want: silk("abc")},
		{name: "mp3 transcoded", entry: "voice", file: "out.mp3", want: []byte("MP3:abc"), decoded: true},
		{name: "wav uppercase extension", entry: "voice", file: "out.WAV", want: []byte("WAV:abc"), decoded: true},
		{name: "opaque written verbatim", entry: "opaque", file: "out.mp3", want: []byte("ID3 mp3 data")},
		{name: "missing entry", entry: "nope", file: "out.mp3", wantErr: store.ErrNotFound},
		{name: "decoder failure", entry: "broken", file: "out.mp3", wantErr: errCorrupt},
		{name: "no extension", entry: "voice", file: "out", anyError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder := &fakeDecoder{}
			dest := filepath.Join(t.TempDir(), tt.file)
			result := New(s, decoder).Entry(context.Background(), tt.entry, dest)

			if tt.wantErr != nil || tt.anyError {
				if result.Err == nil {
					t.Fatal("Entry() error = nil, want error")
				}
				if tt.wantErr != nil && !errors.Is(result.Err, tt.wantErr) {
					t.Errorf("Entry() error = %v, want %v", result.Err, tt.wantErr)
				}
				if _, err := os.Stat(dest); err == nil {
					t.Error("failed export left a file behind")
				}
				return
			}
			if result.Err != nil {
				t.Fatalf("Entry() error = %v", result.Err)
			}

			got, err := os.ReadFile(dest)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("file content = %q, want %q", got, tt.want)
			}
			if tt.decoded != (decoder.calls == 1) {
				t.Errorf("decoder calls = %d, decoded = %v", decoder.calls, tt.decoded)
			}
			if tt.decoded && result.Duration != time.Second {
				t.Errorf("Duration = %v, want 1s", result.Duration)
			}
		})
	}
}

func TestAll(t *testing.T) {
	s := newStore(map[string][]byte{
		"hello":  silk("h"),
		"a/b":    silk("slash"),
		"ab":     silk("plain"),
		"opaque": []byte("not silk"),
		"broken": silk("CORRUPT"),
		"<>":     silk("fallback"),
	})
	dir := filepath.Join(t.TempDir(), "out", "nested")

	report, err := New(s, &fakeDecoder{}).All(context.Background(), dir, format.ExportMP3)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	if len(report.Results) != 6 {
		t.Fatalf("len(Results) = %d, want 6", len(report.Results))
	}
	if report.Succeeded() != 5 || report.Failed() != 1 {
		t.Errorf("Succeeded() = %d, Failed() = %d, want 5 and 1", report.Succeeded(), report.Failed())
	}

	byName := make(map[string]Result)
	for _, r := range report.Results {
		byName[r.Name] = r
	}
	if byName["opaque"].Err != nil || filepath.Base(byName["opaque"].Path) != "opaque.audio" {
		t.Errorf("opaque = %s, %v; want opaque.audio written", byName["opaque"].Path, byName["opaque"].Err)
	}
	if got, err := os.ReadFile(filepath.Join(dir, "opaque.audio")); err != nil || string(got) != "not silk" {
		t.Errorf("opaque.audio = %q, %v", got, err)
	}
	if !errors.Is(byName["broken"].Err, errCorrupt) {
		t.Errorf("broken error = %v, want errCorrupt", byName["broken"].Err)
	}
	if filepath.Base(byName["<>"].Path) != "unnamed.mp3" {
		t.Errorf("fallback path = %s, want unnamed.mp3", byName["<>"].Path)
	}

	// "a/b" sorts before "ab" and both sanitize to "ab"
	if filepath.Base(byName["a/b"].Path) != "ab.mp3" || filepath.Base(byName["ab"].Path) != "ab-2.mp3" {
		t.Errorf("paths = %s, %s; want ab.mp3, ab-2.mp3", byName["a/b"].Path, byName["ab"].Path)
	}

	got, err := os.ReadFile(filepath.Join(dir, "ab-2.mp3"))
	if err != nil || string(got) != "MP3:plain" {
		t.Errorf("ab-2.mp3 = %q, %v", got, err)
	}
}

func TestAllSilkKeepsOpaque(t *testing.T) {
	s := newStore(map[string][]byte{"opaque": []byte("raw")})
	dir := t.TempDir()

	report, err := New(s, &fakeDecoder{}).All(context.Background(), dir, format.ExportSilk)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if report.Succeeded() != 1 {
		t.Fatalf("Succeeded() = %d, want 1", report.Succeeded())
	}
	got, _ := os.ReadFile(filepath.Join(dir, "opaque.silk"))
	if string(got) != "raw" {
		t.Errorf("opaque.silk = %q, want raw", got)
	}
}

func TestEntriesCancelled(t *testing.T) {
	s := newStore(map[string][]byte{"a": silk("a"), "b": silk("b")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(s, &fakeDecoder{}).Entries(ctx, []string{"a", "b"}, t.TempDir(), format.ExportWAV)
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if report.Failed() != 2 {
		t.Errorf("Failed() = %d, want 2", report.Failed())
	}
	for _, r := range report.Results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("%s error = %v, want context.Canceled", r.Name, r.Err)
		}
	}
}
