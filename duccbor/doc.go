// Package duccbor implements the duc binary format.
//
// # Wire format
//
// A document is the 4-byte magic marker "DUC_" followed by exactly one CBOR
// item (RFC 8949), the root table. Every table is a CBOR map keyed by small
// unsigned integers. Absent slots decode to zero values and unknown slots are
// skipped, so newer writers can add slots without breaking older readers.
// The version slot is the only mandatory one.
//
//	| Slot | Root field     | Encoding                               |
//	|------|----------------|----------------------------------------|
//	| 1    | type           | text                                   |
//	| 2    | version        | text, required                         |
//	| 3    | source         | text                                   |
//	| 4    | elements       | array of {1: kind, 2: payload}         |
//	| 5    | app state      | table                                  |
//	| 6    | files          | array of file entry tables             |
//	| 7    | renderer state | table                                  |
//	| 8    | blocks         | array of tables                        |
//	| 9    | groups         | array of tables                        |
//	| 10   | layers         | array of tables                        |
//	| 11   | regions        | array of tables                        |
//	| 12   | dictionary     | array of {1: key, 2: value}, key order |
//	| 13   | version graph  | table                                  |
//
// Element payloads are variant tables holding the shared base table in
// slot 1. Payloads of unknown kinds are kept byte for byte and written back
// unchanged.
//
// Floats are written at their declared width: float32 fields as single
// precision and float64 fields as double precision.
//
// # Recovery
//
// A missing marker or a root item that is not well formed fails with
// [FormatError]. Inside a well formed root, a collection entry that does not
// match its table layout (an element, a file entry, a block or a dictionary
// entry) is logged and skipped.
//
// # Files
//
// File entries are read with a scanner over the input buffer rather than
// the table decoder. [ParseLazy] and [ListExternalFiles] never copy payload
// bytes, and [GetExternalFile] copies only the payload it returns.
package duccbor
