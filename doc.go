// The [duc] package reads and writes duc drawing documents in the Go way.
//
// # Wire format
//
// A duc buffer is the 4-byte magic "DUC_" followed by a single CBOR table.
// Use [Parse] to decode a whole document, [ParseLazy] to decode everything
// except embedded file payloads, and [GetExternalFile] or
// [ListExternalFiles] to reach attachments without materializing the
// document at all. [Serialize] writes a document back; decoding the result
// yields the same document.
//
// Decoding never panics on malformed input. A buffer that is not a duc
// document fails with an error matching [ErrInvalidFormat]; element kinds
// written by newer versions are kept as [models.UnknownElement] and written
// back with their unknown slots unchanged.
//
// # Open once, read many times
//
// [Open] wraps a buffer in a [File] that checks it once and then answers
// document, structure, attachment and history queries against it.
//
// # Version history
//
// Documents may carry a [models.VersionGraph] of checkpoints and deltas.
// [Commit] records a new version of a document and [File.Version]
// materializes any recorded version. The lower level operations live in
// [github.com/ducflair/duc-sub001/pkg/history].
package duc
