package format

import "testing"

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected ExportFormat
		wantErr  bool
	}{
		{"mp3", ExportMP3, false},
		{"MP3", ExportMP3, false},
		{".wav", ExportWAV, false},
		{" silk ", ExportSilk, false},
		{"m4a", ExportFormat("m4a"), false},
		{"", "", true},
		{".", "", true},
		{"mp3/../x", "", true},
	}

	for _, test := range tests {
		result, err := ParseExportFormat(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseExportFormat(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
			continue
		}
		if result != test.expected {
			t.Errorf("ParseExportFormat(%q) = %s, expected %s", test.input, result, test.expected)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("/out/hello.WAV")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if f != ExportWAV {
		t.Errorf("Expected wav, got %s", f)
	}

	if _, err := FormatFromPath("/out/hello"); err == nil {
		t.Error("Expected error for path without extension")
	}
}

func TestExportFormat_Helpers(t *testing.T) {
	if ExportSilk.FileExtension() != ".silk" {
		t.Errorf("Unexpected extension %s", ExportSilk.FileExtension())
	}
	if !ExportSilk.IsRaw() || ExportMP3.IsRaw() {
		t.Error("Only silk should be raw")
	}
}

func TestIsSupportedSource(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/a/b/voice.mp3", true},
		{"clip.MOV", true},
		{"song.flac", true},
		{"pack.plist", false},
		{"notes.txt", false},
		{"noext", false},
	}

	for _, test := range tests {
		if result := IsSupportedSource(test.path); result != test.expected {
			t.Errorf("IsSupportedSource(%s) = %v, expected %v", test.path, result, test.expected)
		}
	}
}

func TestIsContainer(t *testing.T) {
	if !IsContainer("/x/Pack.PLIST") {
		t.Error("Expected .PLIST to be a container")
	}
	if IsContainer("/x/pack.mp3") {
		t.Error("Expected .mp3 not to be a container")
	}
}
