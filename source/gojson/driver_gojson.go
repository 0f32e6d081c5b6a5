// Package gojson provides a goccy/go-json backed JSON driver.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	"github.com/reoring/skemapi"
	eng "github.com/reoring/skemapi/internal/engine"
)

// Name identifies this driver in configuration.
const Name = "gojson"

// Driver returns a skemapi.JSONDriver backed by goccy/go-json.
func Driver() skemapi.JSONDriver { return driverGoJSON{} }

// Use installs the go-json driver globally.
func Use() { skemapi.SetJSONDriver(Driver()) }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) skemapi.Source {
	return skemapi.SourceFromEngine(NewReader(r), skemapi.NumberJSONNumber)
}
func (driverGoJSON) NewBytes(b []byte) skemapi.Source {
	return skemapi.SourceFromEngine(NewBytes(b), skemapi.NumberJSONNumber)
}
func (driverGoJSON) Name() string { return Name }

// ---- engine.TokenSource implementation using go-json Decoder ----

type source struct {
	dec  *j.Decoder
	keys eng.KeyTracker
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}
	out := eng.Token{Offset: -1}
	switch v := tok.(type) {
	case j.Delim:
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
	case j.Number:
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

func (s *source) Location() int64 { return -1 }
