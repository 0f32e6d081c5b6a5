package engine

// KeyTracker turns the flat token stream of a JSON decoder (delimiters,
// strings, scalars) into engine tokens by telling object keys apart from
// string values. Drivers call one method per decoder token.
type KeyTracker struct {
	stack []frame
}

// Begin records an opening delimiter and returns its token kind.
func (t *KeyTracker) Begin(object bool) Kind {
	if object {
		t.stack = append(t.stack, frame{kind: kindObject, expectingKey: true})
		return KindBeginObject
	}
	t.stack = append(t.stack, frame{kind: kindArray})
	return KindBeginArray
}

// End records a closing delimiter and returns its token kind.
func (t *KeyTracker) End(object bool) Kind {
	if n := len(t.stack); n > 0 {
		t.stack = t.stack[:n-1]
	}
	t.Value()
	if object {
		return KindEndObject
	}
	return KindEndArray
}

// String classifies a decoded string as KindKey or KindString.
func (t *KeyTracker) String() Kind {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.kind == kindObject && top.expectingKey {
			top.expectingKey = false
			return KindKey
		}
	}
	t.Value()
	return KindString
}

// Value records that a value completed inside the current container.
func (t *KeyTracker) Value() {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
