package format

import "testing"

func TestClassify(t *testing.T) {
	silk := append(Signature[:], 0x0c, 0x00, 0xff)

	tests := []struct {
		name     string
		data     []byte
		expected Kind
	}{
		{"nil", nil, Opaque},
		{"empty", []byte{}, Opaque},
		{"nine zero bytes", make([]byte, 9), Opaque},
		{"truncated signature", Signature[:9], Opaque},
		{"exact signature", Signature[:], SpeechCodec},
		{"signature with frames", silk, SpeechCodec},
		{"missing leading byte", []byte("#!SILK_V3\x00"), Opaque},
		{"lowercase", []byte("\x02#!silk_v3"), Opaque},
		{"mp3 header", []byte("ID3\x04\x00\x00\x00\x00\x00\x00\x00"), Opaque},
	}

	for _, test := range tests {
		result := Classify(test.data)
		if result != test.expected {
			t.Errorf("Classify(%s) = %s, expected %s", test.name, result, test.expected)
		}
	}
}

func TestClassify_ShortBuffers(t *testing.T) {
	for n := 0; n < SignatureLength; n++ {
		if Classify(Signature[:n]) != Opaque {
			t.Errorf("Classify of %d-byte prefix should be Opaque", n)
		}
	}
}

func TestClassify_DoesNotMutate(t *testing.T) {
	data := append([]byte(nil), Signature[:]...)
	Classify(data)
	if string(data) != string(Signature[:]) {
		t.Error("Classify modified its input")
	}
}

func TestIsSpeechCodec(t *testing.T) {
	if !IsSpeechCodec(Signature[:]) {
		t.Error("Expected signature to be detected")
	}
	if IsSpeechCodec([]byte("RIFF....WAVE")) {
		t.Error("Expected WAV header to be opaque")
	}
}

func TestKind_String(t *testing.T) {
	if SpeechCodec.String() != "silk" {
		t.Errorf("SpeechCodec.String() = %s", SpeechCodec.String())
	}
	if Opaque.String() != "opaque" {
		t.Errorf("Opaque.String() = %s", Opaque.String())
	}
}
