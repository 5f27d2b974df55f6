package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBloodTypeCanonicalIdempotent(t *testing.T) {
	for _, code := range []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"} {
		got, ok := BloodType(code)
		assert.True(t, ok, code)
		assert.Equal(t, code, got)
	}
}

func TestBloodTypeSynonyms(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"o pos", "O+"},
		{"O POS", "O+"},
		{"O Positive", "O+"},
		{"o plus", "O+"},
		{"AB Negative", "AB-"},
		{"ab neg", "AB-"},
		{"b-", "B-"},
		{"b -", "B-"},
		{"a positive", "A+"},
		{"APOS", "A+"},
		{"oneg", "O-"},
		{" a + ", "A+"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := BloodType(tt.in)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBloodTypeRejectsNonsense(t *testing.T) {
	for _, in := range []string{"", "   ", "XYZ", "C+", "hello", "123"} {
		t.Run(in, func(t *testing.T) {
			got, ok := BloodType(in)
			assert.False(t, ok)
			assert.Empty(t, got)
		})
	}
}
