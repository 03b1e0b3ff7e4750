// Package cli provides the command-line interface for httpfixture.
//
// Commands:
//   - key: Show the folder and fixture names a request maps to
//   - list: List fixture records in a directory or zip archive
//   - lint: Check fixture records and their content files
//   - pack: Archive a fixture directory into a zip readable by ZipStore
//   - serve: Run a reverse proxy that records and replays through fixtures
//   - version: Show httpfixture version
//
// Every command accepts --json for machine-readable output.
package cli
