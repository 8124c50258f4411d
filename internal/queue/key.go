package queue

import (
	"fmt"
	"strings"
	"time"
)

// Key identifies one independent ordering and locking domain:
// office x department x service date. Every FIFO and single-serving
// guarantee in this package holds per Key, never globally.
type Key struct {
	OfficeID     string
	DepartmentID string
	Date         string // YYYY-MM-DD
}

// ResolveKey derives the queue key for a token. Pure; the only failure
// mode is a missing or malformed component.
func ResolveKey(officeID, departmentID string, date time.Time) (Key, error) {
	officeID = strings.TrimSpace(officeID)
	departmentID = strings.TrimSpace(departmentID)

	if officeID == "" {
		return Key{}, fmt.Errorf("%w: office id is required", ErrInvalidArgument)
	}
	if departmentID == "" {
		return Key{}, fmt.Errorf("%w: department id is required", ErrInvalidArgument)
	}
	if date.IsZero() {
		return Key{}, fmt.Errorf("%w: service date is required", ErrInvalidArgument)
	}

	return Key{
		OfficeID:     officeID,
		DepartmentID: departmentID,
		Date:         date.Format("2006-01-02"),
	}, nil
}

// ResolveKeyDate is ResolveKey for an already formatted YYYY-MM-DD date.
func ResolveKeyDate(officeID, departmentID, date string) (Key, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return Key{}, fmt.Errorf("%w: service date must be YYYY-MM-DD", ErrInvalidArgument)
	}
	return ResolveKey(officeID, departmentID, parsed)
}

func (k Key) String() string {
	return k.OfficeID + ":" + k.DepartmentID + ":" + k.Date
}
