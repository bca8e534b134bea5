package units

import (
	"testing"
	"time"
)

func TestIsTimezoneValid(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		expected bool
	}{
		{"valid UTC", "UTC", true},
		{"valid New York", "America/New_York", true},
		{"invalid", "Invalid/Timezone", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := IsTimezoneValid(tt.timezone)
			if res != tt.expected {
				t.Errorf("IsTimezoneValid(%s) = %v, want %v", tt.timezone, res, tt.expected)
			}
		})
	}
}

func TestFixedZone(t *testing.T) {
	ref := time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC)

	if FixedZone(0) != time.UTC {
		t.Fatalf("FixedZone(0) should be UTC")
	}
	if got := OffsetHours(ref.In(FixedZone(-5))); got != -5 {
		t.Fatalf("OffsetHours = %f, want -5", got)
	}
	if got := OffsetHours(ref.In(FixedZone(5.5))); got != 5.5 {
		t.Fatalf("OffsetHours = %f, want 5.5", got)
	}
	name, _ := ref.In(FixedZone(-3.5)).Zone()
	if name != "UTC-03:30" {
		t.Fatalf("zone name = %q, want UTC-03:30", name)
	}
}

func TestResolveZone(t *testing.T) {
	t.Run("named zone honours DST", func(t *testing.T) {
		loc, err := ResolveZone("America/New_York", -5)
		if err != nil {
			t.Fatalf("ResolveZone error: %v", err)
		}
		summer := time.Date(2025, 7, 1, 12, 0, 0, 0, loc)
		if got := OffsetHours(summer); got != -4 {
			t.Fatalf("summer offset = %f, want -4", got)
		}
	})

	t.Run("falls back to offset", func(t *testing.T) {
		loc, err := ResolveZone("", 2)
		if err != nil {
			t.Fatalf("ResolveZone error: %v", err)
		}
		if got := OffsetHours(time.Date(2025, 1, 1, 0, 0, 0, 0, loc)); got != 2 {
			t.Fatalf("offset = %f, want 2", got)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		if _, err := ResolveZone("Invalid/Zone", 0); err == nil {
			t.Fatal("expected error for invalid zone")
		}
	})
}
