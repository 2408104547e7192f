package util

import (
	"testing"
	"time"
)

func TestFormatPrecise(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00.0"},
		{-time.Second, "0:00.0"},
		{1250 * time.Millisecond, "0:01.2"},
		{61*time.Second + 900*time.Millisecond, "1:01.9"},
		{99 * time.Millisecond, "0:00.0"},
	}
	for _, tt := range tests {
		if got := FormatPrecise(tt.in); got != tt.want {
			t.Errorf("FormatPrecise(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
