// Package codec bridges SILK v3 speech bitstreams and conventional audio
// through external processes: the SILK decoder and encoder, and ffmpeg for
// demuxing arbitrary media to canonical PCM (s16le, mono, 24 kHz) and muxing
// PCM into containers such as mp3 or wav.
//
// Each call works in its own scratch directory which is removed before the
// call returns, whether it succeeded or not. Nothing is retried: the tools are
// deterministic for a given input.
package codec
