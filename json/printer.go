package json

import (
	"strconv"

	"github.com/arakawa-lab/vjson"
	"github.com/arakawa-lab/vjson/internal/pool"
)

// Marshal walks v via its Destructure/iteration API and returns compact
// JSON text.
func Marshal(v vjson.Value) ([]byte, error) {
	buf := pool.Get()
	defer pool.Put(buf)

	if err := write(buf, v, ""); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// MarshalIndent is Marshal with each nesting level indented by indent.
func MarshalIndent(v vjson.Value, indent string) ([]byte, error) {
	buf := pool.Get()
	defer pool.Put(buf)

	if err := write(buf, v, indent); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

func write(buf *pool.ByteBuffer, v vjson.Value, indent string) error {
	return writeAt(buf, v, indent, 0)
}

func writeAt(buf *pool.ByteBuffer, v vjson.Value, indent string, depth int) error {
	switch v.Destructure().Kind {
	case vjson.KindNull:
		buf.WriteString("null") //nolint:errcheck

		return nil
	case vjson.KindBool:
		b, _ := v.ToBool()
		if b {
			buf.WriteString("true") //nolint:errcheck
		} else {
			buf.WriteString("false") //nolint:errcheck
		}

		return nil
	case vjson.KindNumber:
		return writeNumber(buf, v)
	case vjson.KindString:
		s, _ := v.AsString()
		writeString(buf, s)

		return nil
	case vjson.KindArray:
		return writeArray(buf, v, indent, depth)
	case vjson.KindObject:
		return writeObject(buf, v, indent, depth)
	default:
		return nil
	}
}

func writeNumber(buf *pool.ByteBuffer, v vjson.Value) error {
	n, _ := v.AsNumber()
	if n.HasDecimalPoint() {
		f, _ := v.ToF64()
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64)) //nolint:errcheck

		return nil
	}
	if i, ok := v.ToI64(); ok {
		buf.WriteString(strconv.FormatInt(i, 10)) //nolint:errcheck

		return nil
	}
	u, _ := v.ToU64()
	buf.WriteString(strconv.FormatUint(u, 10)) //nolint:errcheck

	return nil
}

func writeString(buf *pool.ByteBuffer, s string) {
	buf.WriteByte('"') //nolint:errcheck
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`) //nolint:errcheck
		case '\\':
			buf.WriteString(`\\`) //nolint:errcheck
		case '\n':
			buf.WriteString(`\n`) //nolint:errcheck
		case '\r':
			buf.WriteString(`\r`) //nolint:errcheck
		case '\t':
			buf.WriteString(`\t`) //nolint:errcheck
		default:
			if r < 0x20 {
				const hex = "0123456789abcdef"
				buf.WriteString(`\u00`)  //nolint:errcheck
				buf.WriteByte(hex[r>>4]) //nolint:errcheck
				buf.WriteByte(hex[r&0xf]) //nolint:errcheck
			} else {
				buf.WriteString(string(r)) //nolint:errcheck
			}
		}
	}
	buf.WriteByte('"') //nolint:errcheck
}

func newline(buf *pool.ByteBuffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n') //nolint:errcheck
	for i := 0; i < depth; i++ {
		buf.WriteString(indent) //nolint:errcheck
	}
}

func writeArray(buf *pool.ByteBuffer, v vjson.Value, indent string, depth int) error {
	a, _ := v.AsArray()
	buf.WriteByte('[') //nolint:errcheck

	i := 0
	for elem := range a.All() {
		if i > 0 {
			buf.WriteByte(',') //nolint:errcheck
		}
		newline(buf, indent, depth+1)
		if err := writeAt(buf, elem, indent, depth+1); err != nil {
			return err
		}
		i++
	}

	if i > 0 {
		newline(buf, indent, depth)
	}
	buf.WriteByte(']') //nolint:errcheck

	return nil
}

func writeObject(buf *pool.ByteBuffer, v vjson.Value, indent string, depth int) error {
	o, _ := v.AsObject()
	buf.WriteByte('{') //nolint:errcheck

	i := 0
	for k, val := range o.All() {
		if i > 0 {
			buf.WriteByte(',') //nolint:errcheck
		}
		newline(buf, indent, depth+1)
		writeString(buf, k)
		buf.WriteByte(':') //nolint:errcheck
		if indent != "" {
			buf.WriteByte(' ') //nolint:errcheck
		}
		if err := writeAt(buf, val, indent, depth+1); err != nil {
			return err
		}
		i++
	}

	if i > 0 {
		newline(buf, indent, depth)
	}
	buf.WriteByte('}') //nolint:errcheck

	return nil
}
