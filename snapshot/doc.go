// Package snapshot implements a binary persistence codec for a vjson.Value
// graph: a fixed header (magic, version, compression type, endianness,
// CRC32 over the payload) followed by a recursively tape-encoded value,
// optionally compressed. The header/CRC layout and the endian/compress
// collaborators are adapted from the teacher's blob/section wire format,
// retargeted from a time-series blob to a general value-graph snapshot.
package snapshot
