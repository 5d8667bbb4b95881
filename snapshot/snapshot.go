package snapshot

import (
	"fmt"
	"hash/crc32"
	"io"

	"github.com/arakawa-lab/vjson"
	"github.com/arakawa-lab/vjson/compress"
	"github.com/arakawa-lab/vjson/format"
	"github.com/arakawa-lab/vjson/internal/pool"
)

// Option configures Encode.
type Option func(*options)

type options struct {
	compression format.CompressionType
	bigEndian   bool
}

// WithCompression selects the payload compression codec (default
// format.CompressionNone).
func WithCompression(c format.CompressionType) Option {
	return func(o *options) { o.compression = c }
}

// WithBigEndian encodes the tape payload and header fields in big-endian
// byte order instead of the default little-endian. Decode reads the
// header's endianness flag and follows suit automatically.
func WithBigEndian() Option {
	return func(o *options) { o.bigEndian = true }
}

// Encode tape-encodes v, optionally compresses the tape, and writes a
// framed snapshot (header + payload) to w.
func Encode(w io.Writer, v vjson.Value, opts ...Option) error {
	o := options{compression: format.CompressionNone}
	for _, opt := range opts {
		opt(&o)
	}

	h := header{
		compression:  o.compression,
		littleEndian: !o.bigEndian,
	}

	buf := pool.GetLarge()
	defer pool.PutLarge(buf)

	encodeValue(buf, v, h.engine())

	codec, err := compress.GetCodec(o.compression)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	payload, err := codec.Compress(buf.Bytes())
	if err != nil {
		return fmt.Errorf("snapshot: compress: %w", err)
	}

	h.payloadLen = uint32(len(payload))
	h.crc32 = crc32.ChecksumIEEE(payload)

	if _, err := w.Write(h.bytes()); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("snapshot: write payload: %w", err)
	}

	return nil
}

// Decode reads a framed snapshot from r and rebuilds its vjson.Value graph,
// verifying the payload's CRC32 before decoding the tape.
func Decode(r io.Reader) (vjson.Value, error) {
	hdrBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, hdrBuf); err != nil {
		return vjson.Null, fmt.Errorf("snapshot: read header: %w", err)
	}

	h, err := parseHeader(hdrBuf)
	if err != nil {
		return vjson.Null, err
	}

	payload := make([]byte, h.payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return vjson.Null, fmt.Errorf("snapshot: read payload: %w", err)
	}

	if crc32.ChecksumIEEE(payload) != h.crc32 {
		return vjson.Null, ErrChecksumMismatch
	}

	codec, err := compress.GetCodec(h.compression)
	if err != nil {
		return vjson.Null, fmt.Errorf("snapshot: %w", err)
	}

	tape, err := codec.Decompress(payload)
	if err != nil {
		return vjson.Null, fmt.Errorf("snapshot: decompress: %w", err)
	}

	return decodeValue(&tapeReader{data: tape, e: h.engine()})
}
