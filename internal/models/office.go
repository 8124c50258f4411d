package models

import "time"

type Office struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	District  string    `json:"district"`
	State     string    `json:"state"`
	IsActive  string    `json:"is_active"`
	OpenTime  string    `json:"open_time"`  // "HH:MM:SS"
	CloseTime string    `json:"close_time"` // "HH:MM:SS"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Department struct {
	ID                string    `json:"id"`
	OfficeID          string    `json:"office_id"`
	Name              string    `json:"name"`
	Code              string    `json:"code"`
	AvgServiceMinutes int       `json:"avg_service_minutes"`
	IsActive          string    `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CreateOfficeRequest struct {
	Code      string `json:"code" validate:"required,max=10"`
	Name      string `json:"name" validate:"required,max=255"`
	District  string `json:"district" validate:"max=100"`
	State     string `json:"state" validate:"max=100"`
	IsActive  string `json:"is_active" validate:"omitempty,oneof=y n"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type UpdateOfficeRequest struct {
	Code      string `json:"code" validate:"omitempty,max=10"`
	Name      string `json:"name" validate:"omitempty,max=255"`
	District  string `json:"district" validate:"omitempty,max=100"`
	State     string `json:"state" validate:"omitempty,max=100"`
	IsActive  string `json:"is_active" validate:"omitempty,oneof=y n"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type CreateDepartmentRequest struct {
	OfficeID          string `json:"office_id" validate:"required"`
	Name              string `json:"name" validate:"required,max=255"`
	Code              string `json:"code" validate:"required,max=10"`
	AvgServiceMinutes int    `json:"avg_service_minutes" validate:"min=0"`
	IsActive          string `json:"is_active" validate:"omitempty,oneof=y n"`
}

type UpdateDepartmentRequest struct {
	Name              string `json:"name" validate:"omitempty,max=255"`
	Code              string `json:"code" validate:"omitempty,max=10"`
	AvgServiceMinutes *int   `json:"avg_service_minutes" validate:"omitempty,min=0"`
	IsActive          string `json:"is_active" validate:"omitempty,oneof=y n"`
}
