// Package json implements a JSON text parser and printer for vjson.Value,
// built directly on the facade's constructors and inspection API. The
// parser is a hand-rolled recursive-descent scanner that builds a value
// graph in one pass (no intermediate AST), the same shape of approach as
// other_examples' simdjson-go tape builder, simplified to a plain byte
// scanner instead of a SIMD stage1/stage2 split.
package json
