package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlatRecord is one flattened training row: an ordered set of field/value
// pairs. Order matters twice over: the dataset writers derive column order
// from it, and the variant generator rewrites records without shuffling
// their fields.
//
// Values are scalars: string, bool, nil, or json.Number. Numbers are kept as
// json.Number on decode so the original literal (and its decimal-place
// count) survives a read/modify/write cycle.
type FlatRecord struct {
	keys   []string
	values map[string]any
}

// NewFlatRecord creates an empty record.
func NewFlatRecord() *FlatRecord {
	return &FlatRecord{values: make(map[string]any)}
}

// Set stores a value. A new key is appended; an existing key keeps its
// position and only the value is replaced. The zero value of FlatRecord is
// usable; Set allocates the map on first use.
func (r *FlatRecord) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r *FlatRecord) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present.
func (r *FlatRecord) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Delete removes a key and its value. Missing keys are a no-op.
func (r *FlatRecord) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the field names in insertion order.
func (r *FlatRecord) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r *FlatRecord) Len() int {
	return len(r.keys)
}

// Clone returns an independent copy. Values are scalars, so a per-entry copy
// is a deep copy.
func (r *FlatRecord) Clone() *FlatRecord {
	c := &FlatRecord{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]any, len(r.values)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// ResolveField returns the first value present under any of the aliases.
func (r *FlatRecord) ResolveField(aliases ...string) (any, bool) {
	for _, key := range aliases {
		if v, ok := r.values[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the record as a JSON object preserving key order.
func (r *FlatRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping key order and numeric literals.
func (r *FlatRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: flat record must be a JSON object", ErrMalformedJSON)
	}

	r.keys = nil
	r.values = make(map[string]any)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: object key is not a string", ErrMalformedJSON)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrMalformedJSON, key, err)
		}
		r.Set(key, value)
	}

	// Consume closing brace.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return nil
}

// decodeValue reads one JSON value from the decoder. Flat records only carry
// scalars, but nested values are decoded too so a malformed input produces a
// clean error instead of a desynchronised token stream.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := make(map[string]any)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is not a string")
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj[key] = v
		}
		_, err := dec.Token()
		return obj, err
	case '[':
		var arr []any
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		_, err := dec.Token()
		return arr, err
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}
