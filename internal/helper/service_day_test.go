package helper

import (
	"testing"
	"time"
)

func TestServiceDateUsesOfficeTimezone(t *testing.T) {
	// 22:00 UTC on the 14th is already the 15th in IST.
	instant := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
	if got := ServiceDate(instant); got != "2026-03-15" {
		t.Errorf("got %s, want 2026-03-15", got)
	}

	morning := time.Date(2026, 3, 14, 3, 0, 0, 0, time.UTC)
	if got := ServiceDate(morning); got != "2026-03-14" {
		t.Errorf("got %s, want 2026-03-14", got)
	}
}

func TestIsOfficeOpenMalformedTimes(t *testing.T) {
	if IsOfficeOpen("not-a-time", "17:00:00") {
		t.Error("malformed open time should read as closed")
	}
	if IsOfficeOpen("09:00:00", "five") {
		t.Error("malformed close time should read as closed")
	}
}

func TestIsOfficeOpenAcceptsShortFormat(t *testing.T) {
	// HH:MM and HH:MM:SS must parse the same; a full-day window is
	// always open regardless of wall clock.
	if !IsOfficeOpen("00:00", "23:59:59") {
		t.Error("full-day window should be open")
	}
}
