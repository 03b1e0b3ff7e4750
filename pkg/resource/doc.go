// Package resource provides the byte-level storage used for HTTP fixtures.
//
// A fixture lives in a named container: a slash-separated folder (host plus
// path segments) and a file name inside it. Every backend implements the
// read path through Store. Backends that can capture new fixtures also
// implement WritableStore.
//
// Backends:
//   - FileStore: plain directory on disk (read/write, atomic replace)
//   - MemoryStore: map-backed (read/write), useful in tests
//   - FSStore: any fs.FS (read-only), optionally case-insensitive
//   - ZipStore: zip archive (read-only, case-insensitive)
//   - EmbeddedStore: flat resource bundle such as embed.FS (read-only)
//   - SandboxStore: per-application data directory rooted with os.Root (read-only)
//
// A missing fixture is never an error: Exists reports false and Open
// reports ok == false. Only real I/O failures are returned as errors.
package resource
