package models

import (
	"time"
)

// Token statuses. A token is created as pending by booking, becomes
// waiting on check-in, serving when an official calls it, and ends in
// completed or cancelled. skipped only exists inside the skip
// operation; it is written back to waiting in the same transaction.
const (
	StatusPending   = "pending"
	StatusWaiting   = "waiting"
	StatusServing   = "serving"
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
	StatusCancelled = "cancelled"
)

type Token struct {
	ID              string            `json:"id"`
	TokenNumber     string            `json:"token_number"`
	CitizenID       string            `json:"citizen_id"`
	OfficeID        string            `json:"office_id"`
	DepartmentID    string            `json:"department_id"`
	Status          string            `json:"status"`
	AppointmentDate string            `json:"appointment_date"` // YYYY-MM-DD
	AppointmentTime string            `json:"appointment_time"` // HH:MM
	DocumentRefs    map[string]string `json:"document_refs,omitempty"`
	ServedBy        *string           `json:"served_by"`
	ServedAt        *time.Time        `json:"served_at"`
	// CreatedAt is the FIFO ordering key while the token is waiting.
	// Check-in stamps it with the arrival instant and skip rewrites it
	// to reinsert the token; booking time is not kept here.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookTokenRequest struct {
	OfficeID        string            `json:"office_id"`
	DepartmentID    string            `json:"department_id"`
	AppointmentDate string            `json:"appointment_date"`
	AppointmentTime string            `json:"appointment_time"`
	DocumentRefs    map[string]string `json:"document_refs"`
}

// TokenPosition is the live rank view returned to citizens.
type TokenPosition struct {
	TokenID              string `json:"token_id"`
	TokenNumber          string `json:"token_number"`
	Status               string `json:"status"`
	Rank                 int    `json:"rank"`
	EstimatedWaitMinutes int    `json:"estimated_wait_minutes"`
}
