package skemapi

import (
	"io"
	"sync"

	eng "github.com/reoring/skemapi/internal/engine"
	jsonsrc "github.com/reoring/skemapi/source/json"
)

// Source abstracts over polymorphic input sources. Implementations come from
// a JSONDriver or from SourceFromEngine.
type Source interface {
	NumberMode() NumberMode
	Location() int64 // byte offset; -1 if unknown
	tokens() eng.TokenSource
}

// JSONDriver converts JSON input into a Source via a pluggable SPI. The default
// implementation is based on encoding/json and may be swapped with SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default encoding/json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

// CurrentJSONDriver returns the driver used by JSONReader and JSONBytes.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// DefaultJSONDriverName is the Name of the encoding/json driver.
const DefaultJSONDriverName = "std"

// defaultJSONDriver wraps the encoding/json implementation.
type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source {
	return &engineSource{inner: jsonsrc.NewReader(r), numMode: NumberJSONNumber}
}
func (defaultJSONDriver) NewBytes(b []byte) Source {
	return &engineSource{inner: jsonsrc.NewBytes(b), numMode: NumberJSONNumber}
}
func (defaultJSONDriver) Name() string { return DefaultJSONDriverName }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return CurrentJSONDriver().NewBytes(b) }

// SourceFromEngine wraps an engine.TokenSource as a Source. Drivers living in
// this module use it to plug their decoders in.
func SourceFromEngine(inner eng.TokenSource, mode NumberMode) Source {
	return &engineSource{inner: inner, numMode: mode}
}

// WithNumberMode wraps a Source and overrides its NumberMode.
func WithNumberMode(s Source, m NumberMode) Source {
	return &engineSource{inner: s.tokens(), numMode: m}
}

type engineSource struct {
	inner   eng.TokenSource
	numMode NumberMode
}

func (s *engineSource) NumberMode() NumberMode  { return s.numMode }
func (s *engineSource) Location() int64         { return s.inner.Location() }
func (s *engineSource) tokens() eng.TokenSource { return s.inner }

func enforce(s Source, opt ParseOpt) eng.TokenSource {
	inner := s.tokens()
	if opt.Strictness.OnDuplicateKey == Ignore && opt.MaxDepth == 0 && opt.MaxBytes == 0 {
		return inner
	}
	return eng.WrapWithEnforcement(inner, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		FailFast:    opt.FailFast,
	})
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}
