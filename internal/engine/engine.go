package engine

import (
	"encoding/json"
	"io"
	"strconv"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

type numberConv func(string) (any, error)

func jsonNumber(s string) (any, error) { return json.Number(s), nil }

func float64Number(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// DecodeAnyFromSource builds an "any" value from the token source. Numbers are
// kept as json.Number.
func DecodeAnyFromSource(src TokenSource) (any, error) {
	return decodeAnyWithConv(src, jsonNumber)
}

// DecodeAnyFromSourceAsFloat64 builds an "any" tree but decodes numbers as float64.
func DecodeAnyFromSourceAsFloat64(src TokenSource) (any, error) {
	return decodeAnyWithConv(src, float64Number)
}

// ExpectEOF consumes the next token and reports an error unless the source
// is exhausted.
func ExpectEOF(src TokenSource) error {
	if _, err := src.NextToken(); err != io.EOF {
		if err != nil {
			return err
		}
		return ErrExtraData
	}
	return nil
}

// ErrExtraData reports trailing tokens after the first JSON value.
var ErrExtraData = &SyntaxError{Msg: "Extra data"}

// SyntaxError is a decode failure that is not reported by the underlying driver.
type SyntaxError struct{ Msg string }

func (e *SyntaxError) Error() string { return e.Msg }

func decodeAnyWithConv(src TokenSource, conv numberConv) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return decodeValue(src, tok, conv)
}

func decodeValue(src TokenSource, tok Token, conv numberConv) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src, conv)
	case KindBeginArray:
		return decodeArray(src, conv)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return conv(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func decodeObject(src TokenSource, conv numberConv) (any, error) {
	m := make(map[string]any)
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(src, vt, conv)
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
	}
}

func decodeArray(src TokenSource, conv numberConv) (any, error) {
	arr := []any{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := decodeValue(src, tok, conv)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}
