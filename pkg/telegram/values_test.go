package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int32
		ok   bool
	}{
		{"42", 42, true},
		{"-7", -7, true},
		{"2.5", 3, true},
		{"-2.5", -3, true},
		{"199.6", 200, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"3e10", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUint(t *testing.T) {
	v, ok := ParseUint("4000000000")
	assert.True(t, ok)
	assert.Equal(t, uint32(4000000000), v)

	_, ok = ParseUint("-1")
	assert.False(t, ok)
	_, ok = ParseUint("1.5")
	assert.False(t, ok)
	_, ok = ParseUint("")
	assert.False(t, ok)
}

func TestParseFloat(t *testing.T) {
	v, ok := ParseFloat("21.25")
	assert.True(t, ok)
	assert.Equal(t, float32(21.25), v)

	for _, in := range []string{"", "x", "NaN", "Inf"} {
		_, ok := ParseFloat(in)
		assert.False(t, ok, in)
	}
}

func TestParseBool(t *testing.T) {
	v, ok := ParseBool("TRUE")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = ParseBool("false")
	assert.True(t, ok)
	assert.False(t, v)

	v, ok = ParseBool("yes")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = ParseBool("")
	assert.False(t, ok)
}
