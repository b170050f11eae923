package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "trunk zero", raw: "081234567890", want: "6281234567890"},
		{name: "plus prefix", raw: "+6281234567890", want: "6281234567890"},
		{name: "double zero prefix", raw: "006281234567890", want: "6281234567890"},
		{name: "already normalized", raw: "6281234567890", want: "6281234567890"},
		{name: "spaces and dashes", raw: "0812-3456 7890", want: "6281234567890"},
		{name: "plus with spaces", raw: "+62 812 3456 7890", want: "6281234567890"},
		{name: "letters only", raw: "abc", want: ""},
		{name: "empty", raw: "", want: ""},
		{name: "short", raw: "12345", want: "12345"},
		{name: "triple zero", raw: "000812", want: "62812"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"081234567890", "+6281234567890", "006281234567890", "0000", "00",
		"0", "+", "12345", "62", "0062 0812", "tel: (0812) 555-0101", "",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		number string
		want   bool
	}{
		{number: "6281234567890", want: true},
		{number: "62812345678", want: true},
		{number: "6281234567", want: false},
		{number: "12345", want: false},
		{number: "", want: false},
		{number: "081234567890", want: false},
		{number: "6281234x67890", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.number))
		})
	}
}
