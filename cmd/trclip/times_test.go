package main

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	now := time.Date(2025, 8, 28, 14, 7, 42, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"now", "now", now},
		{"now any case", " NOW ", now},
		{"epoch ms", "1756390062000", time.UnixMilli(1756390062000)},
		{"rfc3339", "2025-08-28T14:07:42Z", now},
		{"rfc3339 offset", "2025-08-28T23:07:42+09:00", now},
		{"negative duration", "-15m", now.Add(-15 * time.Minute)},
		{"positive duration", "+2h", now.Add(2 * time.Hour)},
		{"hours ago", "2 hours ago", now.Add(-2 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.in, now)
			if err != nil {
				t.Fatalf("parseTime(%q) error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTimeInvalid(t *testing.T) {
	now := time.Now()
	for _, in := range []string{"", "   ", "zzz qqq"} {
		if _, err := parseTime(in, now); err == nil {
			t.Errorf("parseTime(%q) expected error", in)
		}
	}
}
