// Package json provides an encoding/json backed token source.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	eng "github.com/reoring/skemapi/internal/engine"
)

type jsonSource struct {
	dec        *json.Decoder
	read       *bytes.Buffer
	keys       eng.KeyTracker
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	read := &bytes.Buffer{}
	dec := json.NewDecoder(io.TeeReader(r, read))
	dec.UseNumber()
	return &jsonSource{dec: dec, read: read, lastOffset: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return eng.Token{}, io.EOF
		}
		if se, ok := err.(*json.SyntaxError); ok {
			return eng.Token{}, &SyntaxError{Msg: se.Error(), Offset: s.errorOffset(se)}
		}
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	out := eng.Token{Offset: s.lastOffset}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			out.Kind = s.keys.Begin(true)
		case '}':
			out.Kind = s.keys.End(true)
		case '[':
			out.Kind = s.keys.Begin(false)
		case ']':
			out.Kind = s.keys.End(false)
		}
	case string:
		out.Kind = s.keys.String()
		out.String = v
	case bool:
		s.keys.Value()
		out.Kind, out.Bool = eng.KindBool, v
	case json.Number:
		s.keys.Value()
		out.Kind, out.Number = eng.KindNumber, string(v)
	case float64:
		s.keys.Value()
		out.Kind, out.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		s.keys.Value()
		out.Kind = eng.KindNull
	}
	return out, nil
}

func (s *jsonSource) Location() int64 { return s.lastOffset }

// SyntaxError is a decode failure at Offset, the zero-based index of the
// offending byte in the whole input.
type SyntaxError struct {
	Msg    string
	Offset int64
}

func (e *SyntaxError) Error() string { return e.Msg }

// errorOffset makes the offset of se absolute. The decoder stops at the
// start of the failing token. Errors inside a scalar value carry an offset
// from the decoder's running scanner counter, so the scalar is scanned again
// on its own to locate the offending byte.
func (s *jsonSource) errorOffset(se *json.SyntaxError) int64 {
	base := s.dec.InputOffset()
	data := s.read.Bytes()
	if base < 0 || base >= int64(len(data)) || !scalarStart(data[base]) || betweenTokens(se.Error()) {
		return base
	}
	var raw json.RawMessage
	var rse *json.SyntaxError
	if err := json.Unmarshal(data[base:], &raw); errors.As(err, &rse) && rse.Offset > 0 {
		return base + rse.Offset - 1
	}
	return base
}

func scalarStart(c byte) bool {
	return c == '"' || c == '-' || c == 't' || c == 'f' || c == 'n' || ('0' <= c && c <= '9')
}

// betweenTokens reports messages the decoder raises for a misplaced token,
// which are located at the token itself.
func betweenTokens(msg string) bool {
	for _, suffix := range []string{
		" after array element",
		" after object key",
		" after object key:value pair",
		" looking for beginning of object key string",
	} {
		if strings.HasSuffix(msg, suffix) {
			return true
		}
	}
	return false
}

// SyntaxOffset extracts the byte offset of a syntax error reported by this
// source.
func SyntaxOffset(err error) (int64, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Offset, true
	}
	return 0, false
}
