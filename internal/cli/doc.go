package cli

// Package cli implements the voicepack command line shell on top of cobra.
// It owns the interactive prompts, output formatting and the wiring between
// settings, the tool locator, the codec bridge and the voice store.
