package platform

// Package platform contains OS integration and external tooling glue:
// filesystem helpers, opening files with the system player or file manager,
// and locating the ffmpeg and SILK executables for bundled and system installs.
