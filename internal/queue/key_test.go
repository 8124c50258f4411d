package queue

import (
	"errors"
	"testing"
	"time"
)

func TestResolveKey(t *testing.T) {
	date := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name         string
		officeID     string
		departmentID string
		date         time.Time
		want         string
		wantErr      bool
	}{
		{
			name:     "valid",
			officeID: "office-1", departmentID: "dept-1", date: date,
			want: "office-1:dept-1:2026-03-14",
		},
		{
			name:     "whitespace trimmed",
			officeID: "  office-1 ", departmentID: "dept-1", date: date,
			want: "office-1:dept-1:2026-03-14",
		},
		{
			name:     "missing office",
			officeID: "", departmentID: "dept-1", date: date,
			wantErr: true,
		},
		{
			name:     "missing department",
			officeID: "office-1", departmentID: "   ", date: date,
			wantErr: true,
		},
		{
			name:     "zero date",
			officeID: "office-1", departmentID: "dept-1",
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key, err := ResolveKey(test.officeID, test.departmentID, test.date)
			if test.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("got %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveKey: %v", err)
			}
			if key.String() != test.want {
				t.Errorf("key: got %s, want %s", key.String(), test.want)
			}
		})
	}
}

func TestResolveKeyDate(t *testing.T) {
	key, err := ResolveKeyDate("office-1", "dept-1", "2026-03-14")
	if err != nil {
		t.Fatalf("ResolveKeyDate: %v", err)
	}
	if key.Date != "2026-03-14" {
		t.Errorf("date: got %s", key.Date)
	}

	if _, err := ResolveKeyDate("office-1", "dept-1", "14/03/2026"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("malformed date: got %v, want ErrInvalidArgument", err)
	}
}

func TestKeysAreIndependentDomains(t *testing.T) {
	a, _ := ResolveKeyDate("office-1", "dept-1", "2026-03-14")
	b, _ := ResolveKeyDate("office-1", "dept-2", "2026-03-14")
	c, _ := ResolveKeyDate("office-1", "dept-1", "2026-03-15")

	if a.String() == b.String() || a.String() == c.String() {
		t.Error("distinct department/date must resolve to distinct keys")
	}

	locks := newKeyLocks()
	if locks.get(a) == locks.get(b) {
		t.Error("different keys must not share a lock")
	}
	if locks.get(a) != locks.get(a) {
		t.Error("same key must reuse its lock")
	}
}
