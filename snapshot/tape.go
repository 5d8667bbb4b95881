package snapshot

import (
	"math"

	"github.com/arakawa-lab/vjson"
	"github.com/arakawa-lab/vjson/endian"
	"github.com/arakawa-lab/vjson/internal/pool"
)

const (
	tagNull uint8 = iota
	tagFalse
	tagTrue
	tagNumI64
	tagNumU64
	tagNumF64
	tagString
	tagArray
	tagObject
)

func encodeValue(buf *pool.ByteBuffer, v vjson.Value, e endian.EndianEngine) {
	switch v.Kind() {
	case vjson.KindNull:
		buf.WriteByte(tagNull) //nolint:errcheck // ByteBuffer.WriteByte never fails
	case vjson.KindBool:
		if b, _ := v.ToBool(); b {
			buf.WriteByte(tagTrue) //nolint:errcheck
		} else {
			buf.WriteByte(tagFalse) //nolint:errcheck
		}
	case vjson.KindNumber:
		encodeNumber(buf, v, e)
	case vjson.KindString:
		s, _ := v.AsString()
		buf.WriteByte(tagString) //nolint:errcheck
		writeLenPrefixed(buf, s, e)
	case vjson.KindArray:
		a, _ := v.AsArray()
		buf.WriteByte(tagArray) //nolint:errcheck
		writeUint32(buf, uint32(a.Len()), e)
		for elem := range a.All() {
			encodeValue(buf, elem, e)
		}
	case vjson.KindObject:
		o, _ := v.AsObject()
		buf.WriteByte(tagObject) //nolint:errcheck
		writeUint32(buf, uint32(o.Len()), e)
		for k, val := range o.All() {
			writeLenPrefixed(buf, k, e)
			encodeValue(buf, val, e)
		}
	}
}

func encodeNumber(buf *pool.ByteBuffer, v vjson.Value, e endian.EndianEngine) {
	n, _ := v.AsNumber()
	if !n.HasDecimalPoint() {
		if i, ok := v.ToI64(); ok {
			buf.WriteByte(tagNumI64) //nolint:errcheck
			writeUint64(buf, uint64(i), e)

			return
		}
		if u, ok := v.ToU64(); ok {
			buf.WriteByte(tagNumU64) //nolint:errcheck
			writeUint64(buf, u, e)

			return
		}
	}

	f, _ := v.ToF64()
	buf.WriteByte(tagNumF64) //nolint:errcheck
	writeUint64(buf, math.Float64bits(f), e)
}

func writeUint32(buf *pool.ByteBuffer, v uint32, e endian.EndianEngine) {
	var tmp [4]byte
	e.PutUint32(tmp[:], v)
	buf.Write(tmp[:]) //nolint:errcheck
}

func writeUint64(buf *pool.ByteBuffer, v uint64, e endian.EndianEngine) {
	var tmp [8]byte
	e.PutUint64(tmp[:], v)
	buf.Write(tmp[:]) //nolint:errcheck
}

func writeLenPrefixed(buf *pool.ByteBuffer, s string, e endian.EndianEngine) {
	writeUint32(buf, uint32(len(s)), e)
	buf.WriteString(s) //nolint:errcheck
}

// tapeReader walks a tape-encoded payload, tracking its own offset and
// decoding multi-byte fields with the same EndianEngine the header
// advertises (endian.EndianEngine is what the matching Encode call used).
type tapeReader struct {
	data []byte
	off  int
	e    endian.EndianEngine
}

func (r *tapeReader) byte() (uint8, bool) {
	if r.off >= len(r.data) {
		return 0, false
	}
	b := r.data[r.off]
	r.off++

	return b, true
}

func (r *tapeReader) uint32() (uint32, bool) {
	if r.off+4 > len(r.data) {
		return 0, false
	}
	v := r.e.Uint32(r.data[r.off : r.off+4])
	r.off += 4

	return v, true
}

func (r *tapeReader) uint64() (uint64, bool) {
	if r.off+8 > len(r.data) {
		return 0, false
	}
	v := r.e.Uint64(r.data[r.off : r.off+8])
	r.off += 8

	return v, true
}

func (r *tapeReader) string(n uint32) (string, bool) {
	if r.off+int(n) > len(r.data) {
		return "", false
	}
	s := string(r.data[r.off : r.off+int(n)])
	r.off += int(n)

	return s, true
}

func decodeValue(r *tapeReader) (vjson.Value, error) {
	tag, ok := r.byte()
	if !ok {
		return vjson.Null, ErrCorruptTape
	}

	switch tag {
	case tagNull:
		return vjson.Null, nil
	case tagFalse:
		return vjson.False, nil
	case tagTrue:
		return vjson.True, nil
	case tagNumI64:
		u, ok := r.uint64()
		if !ok {
			return vjson.Null, ErrCorruptTape
		}

		return vjson.NewNumberFromI64(int64(u)), nil
	case tagNumU64:
		u, ok := r.uint64()
		if !ok {
			return vjson.Null, ErrCorruptTape
		}

		return vjson.NewNumberFromU64(u), nil
	case tagNumF64:
		u, ok := r.uint64()
		if !ok {
			return vjson.Null, ErrCorruptTape
		}
		v, err := vjson.NewNumberFromF64(math.Float64frombits(u))
		if err != nil {
			return vjson.Null, err
		}

		return v, nil
	case tagString:
		n, ok := r.uint32()
		if !ok {
			return vjson.Null, ErrCorruptTape
		}
		s, ok := r.string(n)
		if !ok {
			return vjson.Null, ErrCorruptTape
		}

		return vjson.NewString(s), nil
	case tagArray:
		n, ok := r.uint32()
		if !ok {
			return vjson.Null, ErrCorruptTape
		}
		av := vjson.ArrayWithCapacity(int(n))
		a, _ := av.AsArray()
		for i := uint32(0); i < n; i++ {
			elem, err := decodeValue(r)
			if err != nil {
				av.Release()

				return vjson.Null, err
			}
			a.Push(elem)
		}

		return av, nil
	case tagObject:
		n, ok := r.uint32()
		if !ok {
			return vjson.Null, ErrCorruptTape
		}
		ov := vjson.ObjectWithCapacity(int(n))
		o, _ := ov.AsObject()
		for i := uint32(0); i < n; i++ {
			klen, ok := r.uint32()
			if !ok {
				ov.Release()

				return vjson.Null, ErrCorruptTape
			}
			k, ok := r.string(klen)
			if !ok {
				ov.Release()

				return vjson.Null, ErrCorruptTape
			}
			val, err := decodeValue(r)
			if err != nil {
				ov.Release()

				return vjson.Null, err
			}
			o.Insert(k, val)
		}

		return ov, nil
	default:
		return vjson.Null, ErrCorruptTape
	}
}
