package format

import "bytes"

// Kind is the classification of a payload.
type Kind int

const (
	// Opaque is any payload that is not a SILK v3 bitstream.
	Opaque Kind = iota
	// SpeechCodec is a SILK v3 bitstream (Tencent dialect header).
	SpeechCodec
)

// SignatureLength is the number of leading bytes inspected by Classify.
const SignatureLength = 10

// Signature is the 0x02 byte followed by ASCII "#!SILK_V3".
var Signature = [SignatureLength]byte{0x02, '#', '!', 'S', 'I', 'L', 'K', '_', 'V', '3'}

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case SpeechCodec:
		return "silk"
	default:
		return "opaque"
	}
}

// Classify reports whether b starts with the SILK v3 signature.
// Payloads shorter than the signature are Opaque.
func Classify(b []byte) Kind {
	if len(b) < SignatureLength {
		return Opaque
	}
	if bytes.Equal(b[:SignatureLength], Signature[:]) {
		return SpeechCodec
	}
	return Opaque
}

// IsSpeechCodec is shorthand for Classify(b) == SpeechCodec.
func IsSpeechCodec(b []byte) bool {
	return Classify(b) == SpeechCodec
}
