package helper

import (
	"os"
	"strings"
	"time"
)

// ServiceLocation is the timezone offices operate in. Overridable via
// SERVICE_TZ for deployments outside IST.
func ServiceLocation() *time.Location {
	tz := os.Getenv("SERVICE_TZ")
	if tz == "" {
		tz = "Asia/Kolkata"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ServiceDate formats an instant as the office-local service date.
// Check-in compares this against the token's appointment date.
func ServiceDate(t time.Time) string {
	return t.In(ServiceLocation()).Format("2006-01-02")
}

// IsOfficeOpen reports whether the office-local wall clock falls inside
// the open/close window. DB TIME columns may come back as HH:MM or
// HH:MM:SS.
func IsOfficeOpen(openTime, closeTime string) bool {
	loc := ServiceLocation()
	now := time.Now().In(loc)

	layout := "15:04:05"
	if strings.Count(openTime, ":") == 1 {
		openTime += ":00"
	}
	if strings.Count(closeTime, ":") == 1 {
		closeTime += ":00"
	}

	open, err := time.ParseInLocation(layout, openTime, loc)
	if err != nil {
		return false
	}
	closed, err := time.ParseInLocation(layout, closeTime, loc)
	if err != nil {
		return false
	}

	open = time.Date(now.Year(), now.Month(), now.Day(),
		open.Hour(), open.Minute(), open.Second(), 0, loc)
	closed = time.Date(now.Year(), now.Month(), now.Day(),
		closed.Hour(), closed.Minute(), closed.Second(), 0, loc)

	// Closing past midnight: open 22:00, close 02:00.
	if closed.Before(open) {
		closed = closed.Add(24 * time.Hour)
		if now.Before(open) {
			open = open.Add(-24 * time.Hour)
		}
	}

	return now.After(open) && now.Before(closed)
}
