package snapshot

import "errors"

var (
	// ErrInvalidMagic is returned when a stream does not start with the
	// snapshot magic bytes.
	ErrInvalidMagic = errors.New("snapshot: invalid magic")

	// ErrUnsupportedVersion is returned for a header version this codec
	// does not know how to decode.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")

	// ErrChecksumMismatch is returned when the payload's CRC32 does not
	// match the header's recorded checksum.
	ErrChecksumMismatch = errors.New("snapshot: checksum mismatch")

	// ErrCorruptTape is returned when the tape-encoded payload is
	// truncated or contains an unrecognized tag byte.
	ErrCorruptTape = errors.New("snapshot: corrupt tape")
)
