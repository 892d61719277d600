package services

import (
	"testing"
	"time"
)

func TestAcademicYear(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-07-01", "2025-26"},
		{"2025-12-31", "2025-26"},
		{"2026-01-15", "2025-26"},
		{"2026-06-30", "2025-26"},
		{"2026-07-01", "2026-27"},
		{"2024-03-10", "2023-24"},
		{"2099-08-01", "2099-00"},
	}

	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := AcademicYear(d); got != tt.want {
			t.Errorf("AcademicYear(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}
