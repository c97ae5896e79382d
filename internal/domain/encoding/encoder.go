// Package encoding maps category labels to the integer codes seen at training
// time and back.
package encoding

import (
	"encoding/json"
	"fmt"
	"sort"
)

// LabelEncoder is a bijection between an ordered class list and the codes
// 0..n-1. It is immutable after construction.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder builds an encoder; class order defines the codes.
func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: no classes", ErrInvalidEncoder)
	}
	e := &LabelEncoder{
		classes: append([]string(nil), classes...),
		index:   make(map[string]int, len(classes)),
	}
	for i, c := range e.classes {
		if _, dup := e.index[c]; dup {
			return nil, fmt.Errorf("%w: duplicate class %q", ErrInvalidEncoder, c)
		}
		e.index[c] = i
	}
	return e, nil
}

// Classes returns a copy of the class list.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// Len returns the number of classes.
func (e *LabelEncoder) Len() int { return len(e.classes) }

// Contains reports whether v was seen at training time.
func (e *LabelEncoder) Contains(v string) bool {
	_, ok := e.index[v]
	return ok
}

// Encode returns the code of v. An unseen value maps to the code of the first
// class and known is false; it never fails.
func (e *LabelEncoder) Encode(v string) (code int, known bool) {
	if i, ok := e.index[v]; ok {
		return i, true
	}
	return 0, false
}

// Decode returns the class for code.
func (e *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", fmt.Errorf("%w: %d (have %d classes)", ErrUnknownCode, code, len(e.classes))
	}
	return e.classes[code], nil
}

type encoderJSON struct {
	Classes []string `json:"classes"`
}

// MarshalJSON writes {"classes": [...]}.
func (e *LabelEncoder) MarshalJSON() ([]byte, error) {
	return json.Marshal(encoderJSON{Classes: e.classes})
}

// UnmarshalJSON reads {"classes": [...]}.
func (e *LabelEncoder) UnmarshalJSON(data []byte) error {
	var raw encoderJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	built, err := NewLabelEncoder(raw.Classes)
	if err != nil {
		return err
	}
	*e = *built
	return nil
}

// Table holds one encoder per categorical feature.
type Table struct {
	encoders map[string]*LabelEncoder
	names    []string
}

// NewTable builds a table from feature name to class list.
func NewTable(classes map[string][]string) (*Table, error) {
	t := &Table{encoders: make(map[string]*LabelEncoder, len(classes))}
	for name, cs := range classes {
		enc, err := NewLabelEncoder(cs)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", name, err)
		}
		t.encoders[name] = enc
	}
	t.sortNames()
	return t, nil
}

func (t *Table) sortNames() {
	t.names = make([]string, 0, len(t.encoders))
	for name := range t.encoders {
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)
}

// Features returns the encoded feature names, sorted.
func (t *Table) Features() []string {
	return append([]string(nil), t.names...)
}

// Encoder returns the encoder for a feature.
func (t *Table) Encoder(name string) (*LabelEncoder, bool) {
	e, ok := t.encoders[name]
	return e, ok
}

// Len returns the number of encoded features.
func (t *Table) Len() int { return len(t.encoders) }

// UnmarshalJSON reads {"<feature>": {"classes": [...]}, ...}.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw map[string]*LabelEncoder
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.encoders = make(map[string]*LabelEncoder, len(raw))
	for name, enc := range raw {
		if enc == nil {
			return fmt.Errorf("feature %s: %w: null encoder", name, ErrInvalidEncoder)
		}
		t.encoders[name] = enc
	}
	t.sortNames()
	return nil
}

// MarshalJSON writes the table in the same shape UnmarshalJSON reads.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.encoders)
}
