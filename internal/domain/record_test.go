package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatRecord_SetKeepsInsertionOrder(t *testing.T) {
	r := NewFlatRecord()
	r.Set("b", 1)
	r.Set("a", 2)
	r.Set("c", 3)

	assert.Equal(t, []string{"b", "a", "c"}, r.Keys())
}

func TestFlatRecord_ZeroValueUsable(t *testing.T) {
	var r FlatRecord
	r.Set("a", 1)

	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []string{"a"}, r.Keys())
}

func TestFlatRecord_OverwriteKeepsPosition(t *testing.T) {
	r := NewFlatRecord()
	r.Set("a", 1)
	r.Set("b", 2)
	r.Set("a", 9)

	assert.Equal(t, []string{"a", "b"}, r.Keys())
	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 9, v)
}

func TestFlatRecord_Delete(t *testing.T) {
	r := NewFlatRecord()
	r.Set("a", 1)
	r.Set("b", 2)
	r.Set("c", 3)

	r.Delete("b")
	assert.Equal(t, []string{"a", "c"}, r.Keys())
	assert.False(t, r.Has("b"))

	// Deleting a missing key is a no-op.
	r.Delete("missing")
	assert.Equal(t, 2, r.Len())
}

func TestFlatRecord_Clone(t *testing.T) {
	r := NewFlatRecord()
	r.Set("a", json.Number("1.50"))
	r.Set("b", "text")

	c := r.Clone()
	c.Set("a", json.Number("9"))
	c.Set("new", true)

	v, _ := r.Get("a")
	assert.Equal(t, json.Number("1.50"), v)
	assert.False(t, r.Has("new"))
	assert.Equal(t, []string{"a", "b", "new"}, c.Keys())
}

func TestFlatRecord_JSONRoundTrip(t *testing.T) {
	in := []byte(`{"Vikt kg/m": 1.342, "Profil nr/Kund ref": "PX-12", "NOT": 5000, "Lev. tid": null}`)

	var r FlatRecord
	require.NoError(t, json.Unmarshal(in, &r))

	assert.Equal(t, []string{"Vikt kg/m", "Profil nr/Kund ref", "NOT", "Lev. tid"}, r.Keys())

	// Numeric literal preserved verbatim.
	v, ok := r.Get("Vikt kg/m")
	require.True(t, ok)
	assert.Equal(t, json.Number("1.342"), v)

	out, err := json.Marshal(&r)
	require.NoError(t, err)
	assert.JSONEq(t, string(in), string(out))

	// Key order preserved byte-for-byte.
	assert.Equal(t,
		`{"Vikt kg/m":1.342,"Profil nr/Kund ref":"PX-12","NOT":5000,"Lev. tid":null}`,
		string(out))
}

func TestFlatRecord_UnmarshalRejectsNonObject(t *testing.T) {
	var r FlatRecord
	err := json.Unmarshal([]byte(`[1,2,3]`), &r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedJSON)
}

func TestFlatRecord_ResolveField(t *testing.T) {
	r := NewFlatRecord()
	r.Set("Weight kg/m", json.Number("1.2"))

	v, ok := r.ResolveField("Vikt kg/m", "Weight kg/m")
	require.True(t, ok)
	assert.Equal(t, json.Number("1.2"), v)

	_, ok = r.ResolveField("Längd/m m", "Length/m")
	assert.False(t, ok)
}

func TestResolve_FirstMatchWins(t *testing.T) {
	m := map[string]any{"Vikt kg/m": 1.0, "Weight kg/m": 2.0}

	v, ok := Resolve(m, "Vikt kg/m", "Weight kg/m")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"json number", json.Number("1.342"), 1.342, true},
		{"float64", 23.8, 23.8, true},
		{"int", 5000, 5000, true},
		{"numeric string", "0.85", 0.85, true},
		{"text", "ej angivet", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsFloat(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestAsInt(t *testing.T) {
	i, ok := AsInt(json.Number("5000"))
	require.True(t, ok)
	assert.Equal(t, 5000, i)

	_, ok = AsInt(json.Number("1.5"))
	assert.False(t, ok)

	i, ok = AsInt(json.Number("2000.0"))
	require.True(t, ok)
	assert.Equal(t, 2000, i)
}
