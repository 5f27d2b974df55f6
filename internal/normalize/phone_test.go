package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"international with separators", "+91 98765-43210", "9876543210", true},
		{"whatsapp prefix", "whatsapp:+919876543210", "9876543210", true},
		{"exactly ten digits", "9876543210", "9876543210", true},
		{"short number kept as-is", "12345", "12345", true},
		{"empty", "", "", false},
		{"no digits at all", "abc-def", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Phone(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
