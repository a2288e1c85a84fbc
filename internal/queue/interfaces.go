package queue

import (
	"context"

	"github.com/ytget/voicepack/internal/codec"
	"github.com/ytget/voicepack/internal/model"
)

// Encoder converts a media file into a SILK bitstream asynchronously.
// The returned channel yields one result.
type Encoder interface {
	EncodeFromMediaAsync(ctx context.Context, mediaPath string) <-chan codec.EncodeResult
}

// Store is the part of the voice store the queue mutates.
type Store interface {
	Has(name string) bool
	Put(name string, payload []byte)
}

// Prompter asks the interactive caller to name jobs and resolve collisions.
type Prompter interface {
	// AskName returns the entry name for job. ok is false when the caller cancels.
	AskName(ctx context.Context, job model.ConversionJob) (name string, ok bool)

	// ConfirmOverwrite reports whether job may replace the existing entry job.Name.
	ConfirmOverwrite(ctx context.Context, job model.ConversionJob) bool
}
