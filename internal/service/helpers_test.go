package service

import (
	"math"
	"testing"
)

func TestFormatPace(t *testing.T) {
	tests := []struct {
		pace float64
		want string
	}{
		{6.5, "6:30"},
		{5.999, "6:00"}, // seconds roll over
		{4.0, "4:00"},
		{10.25, "10:15"},
		{0, "-"},
		{-1, "-"},
		{math.NaN(), "-"},
		{math.Inf(1), "-"},
	}
	for _, tt := range tests {
		if got := FormatPace(tt.pace); got != tt.want {
			t.Errorf("FormatPace(%v) = %q, want %q", tt.pace, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		sec  int
		want string
	}{
		{125, "2:05"},
		{3599, "59:59"},
		{3661, "1:01:01"},
		{0, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.sec); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}
