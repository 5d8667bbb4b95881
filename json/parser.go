package json

import (
	"fmt"
	"strconv"

	"github.com/arakawa-lab/vjson"
)

// Parse scans data as a single JSON text and builds a vjson.Value graph in
// one pass, calling only vjson's own constructors (NewNumberFromF64/I64/U64,
// NewString, ArrayWithCapacity+Push, ObjectWithCapacity+Insert).
func Parse(data []byte) (vjson.Value, error) {
	p := &parser{data: data}
	p.skipWS()

	v, err := p.parseValue()
	if err != nil {
		return vjson.Null, err
	}

	p.skipWS()
	if p.pos != len(p.data) {
		v.Release()

		return vjson.Null, ErrTrailingData
	}

	return v, nil
}

type parser struct {
	data []byte
	pos  int
}

func (p *parser) skipWS() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}

	return p.data[p.pos], true
}

func (p *parser) parseValue() (vjson.Value, error) {
	c, ok := p.peek()
	if !ok {
		return vjson.Null, ErrUnexpectedEOF
	}

	switch {
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return vjson.Null, err
		}

		return vjson.NewString(s), nil
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == 't':
		return p.parseLiteral("true", vjson.True)
	case c == 'f':
		return p.parseLiteral("false", vjson.False)
	case c == 'n':
		return p.parseLiteral("null", vjson.Null)
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return vjson.Null, fmt.Errorf("%w: unexpected byte %q at offset %d", ErrUnexpectedToken, c, p.pos)
	}
}

func (p *parser) parseLiteral(lit string, v vjson.Value) (vjson.Value, error) {
	if p.pos+len(lit) > len(p.data) || string(p.data[p.pos:p.pos+len(lit)]) != lit {
		return vjson.Null, fmt.Errorf("%w: expected %q at offset %d", ErrUnexpectedToken, lit, p.pos)
	}
	p.pos += len(lit)

	return v, nil
}

func (p *parser) parseObject() (vjson.Value, error) {
	p.pos++ // consume '{'
	p.skipWS()

	ov := vjson.ObjectWithCapacity(4)
	o, _ := ov.AsObject()

	if c, ok := p.peek(); ok && c == '}' {
		p.pos++

		return ov, nil
	}

	for {
		p.skipWS()
		c, ok := p.peek()
		if !ok || c != '"' {
			ov.Release()

			return vjson.Null, fmt.Errorf("%w: expected string key at offset %d", ErrUnexpectedToken, p.pos)
		}

		key, err := p.parseString()
		if err != nil {
			ov.Release()

			return vjson.Null, err
		}

		p.skipWS()
		if c, ok := p.peek(); !ok || c != ':' {
			ov.Release()

			return vjson.Null, fmt.Errorf("%w: expected ':' at offset %d", ErrUnexpectedToken, p.pos)
		}
		p.pos++
		p.skipWS()

		val, err := p.parseValue()
		if err != nil {
			ov.Release()

			return vjson.Null, err
		}

		if prev, had := o.Insert(key, val); had {
			prev.Release()
		}

		p.skipWS()
		c, ok = p.peek()
		if !ok {
			ov.Release()

			return vjson.Null, ErrUnexpectedEOF
		}
		if c == ',' {
			p.pos++

			continue
		}
		if c == '}' {
			p.pos++

			return ov, nil
		}

		ov.Release()

		return vjson.Null, fmt.Errorf("%w: expected ',' or '}' at offset %d", ErrUnexpectedToken, p.pos)
	}
}

func (p *parser) parseArray() (vjson.Value, error) {
	p.pos++ // consume '['
	p.skipWS()

	av := vjson.ArrayWithCapacity(4)
	a, _ := av.AsArray()

	if c, ok := p.peek(); ok && c == ']' {
		p.pos++

		return av, nil
	}

	for {
		p.skipWS()

		val, err := p.parseValue()
		if err != nil {
			av.Release()

			return vjson.Null, err
		}
		a.Push(val)

		p.skipWS()
		c, ok := p.peek()
		if !ok {
			av.Release()

			return vjson.Null, ErrUnexpectedEOF
		}
		if c == ',' {
			p.pos++

			continue
		}
		if c == ']' {
			p.pos++

			return av, nil
		}

		av.Release()

		return vjson.Null, fmt.Errorf("%w: expected ',' or ']' at offset %d", ErrUnexpectedToken, p.pos)
	}
}

func (p *parser) parseString() (string, error) {
	p.pos++ // consume opening quote

	start := p.pos
	hasEscape := false
	for {
		if p.pos >= len(p.data) {
			return "", ErrUnexpectedEOF
		}
		c := p.data[p.pos]
		if c == '"' {
			break
		}
		if c == '\\' {
			hasEscape = true
			p.pos += 2

			continue
		}
		p.pos++
	}

	raw := p.data[start:p.pos]
	p.pos++ // consume closing quote

	if !hasEscape {
		return string(raw), nil
	}

	return unescape(raw)
}

func unescape(raw []byte) (string, error) {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			out = append(out, c)

			continue
		}

		i++
		if i >= len(raw) {
			return "", ErrUnexpectedEOF
		}

		switch raw[i] {
		case '"':
			out = append(out, '"')
		case '\\':
			out = append(out, '\\')
		case '/':
			out = append(out, '/')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'u':
			if i+4 >= len(raw) {
				return "", ErrUnexpectedEOF
			}
			r, err := strconv.ParseUint(string(raw[i+1:i+5]), 16, 32)
			if err != nil {
				return "", fmt.Errorf("%w: invalid \\u escape", ErrUnexpectedToken)
			}
			out = append(out, string(rune(r))...)
			i += 4
		default:
			return "", fmt.Errorf("%w: invalid escape \\%c", ErrUnexpectedToken, raw[i])
		}
	}

	return string(out), nil
}

func (p *parser) parseNumber() (vjson.Value, error) {
	start := p.pos
	isFloat := false

	if c, ok := p.peek(); ok && c == '-' {
		p.pos++
	}
scan:
	for {
		c, ok := p.peek()
		if !ok {
			break
		}
		switch {
		case c >= '0' && c <= '9':
			p.pos++
		case c == '.' || c == 'e' || c == 'E':
			isFloat = true
			p.pos++
			if c2, ok := p.peek(); ok && (c2 == '+' || c2 == '-') {
				p.pos++
			}
		default:
			break scan
		}
	}

	tok := string(p.data[start:p.pos])
	if tok == "" || tok == "-" {
		return vjson.Null, fmt.Errorf("%w: invalid number at offset %d", ErrUnexpectedToken, start)
	}

	if !isFloat {
		if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return vjson.NewNumberFromI64(i), nil
		}
		if u, err := strconv.ParseUint(tok, 10, 64); err == nil {
			return vjson.NewNumberFromU64(u), nil
		}
	}

	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return vjson.Null, fmt.Errorf("%w: invalid number %q", ErrUnexpectedToken, tok)
	}

	v, err := vjson.NewNumberFromF64(f)
	if err != nil {
		return vjson.Null, fmt.Errorf("%w: %v", ErrUnexpectedToken, err)
	}

	return v, nil
}
