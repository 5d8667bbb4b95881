package snapshot

import (
	"github.com/arakawa-lab/vjson/endian"
	"github.com/arakawa-lab/vjson/format"
)

// magic identifies a vjson snapshot stream.
var magic = [4]byte{'V', 'J', 'S', '1'}

const version = 1

// HeaderSize is the fixed byte size of the header (mirrors the teacher's
// fixed-size section header design).
const HeaderSize = 16

// header is the fixed-size preamble: magic, version, compression type,
// endianness flag, a reserved byte, the (possibly compressed) payload
// length, and a CRC32 checksum over that payload.
type header struct {
	compression  format.CompressionType
	littleEndian bool
	payloadLen   uint32
	crc32        uint32
}

func (h header) engine() endian.EndianEngine {
	if h.littleEndian {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}

func (h header) bytes() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], magic[:])
	buf[4] = version
	buf[5] = byte(h.compression)
	if h.littleEndian {
		buf[6] = 0
	} else {
		buf[6] = 1
	}
	buf[7] = 0 // reserved

	e := h.engine()
	e.PutUint32(buf[8:12], h.payloadLen)
	e.PutUint32(buf[12:16], h.crc32)

	return buf
}

func parseHeader(buf []byte) (header, error) {
	if len(buf) < HeaderSize {
		return header{}, ErrCorruptTape
	}
	if [4]byte(buf[0:4]) != magic {
		return header{}, ErrInvalidMagic
	}
	if buf[4] != version {
		return header{}, ErrUnsupportedVersion
	}

	h := header{
		compression:  format.CompressionType(buf[5]),
		littleEndian: buf[6] == 0,
	}
	e := h.engine()
	h.payloadLen = e.Uint32(buf[8:12])
	h.crc32 = e.Uint32(buf[12:16])

	return h, nil
}
