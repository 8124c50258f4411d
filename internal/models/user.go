package models

import (
	"database/sql"
	"time"
)

/*
|--------------------------------------------------------------------------
| DATABASE MODEL (INTERNAL)
|--------------------------------------------------------------------------
| Used for queries against the users table.
*/
type User struct {
	ID           string
	Name         string
	Email        string
	Password     string
	Role         string // citizen, official, super_user
	IsBanned     string
	OfficeID     sql.NullString
	DepartmentID sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

/*
|--------------------------------------------------------------------------
| REQUEST
|--------------------------------------------------------------------------
*/
type LoginRequest struct {
	Email          string `json:"email" validate:"required"`
	Password       string `json:"password" validate:"required"`
	RecaptchaToken string `json:"recaptcha_token"`
}

/*
|--------------------------------------------------------------------------
| RESPONSE DTO
|--------------------------------------------------------------------------
| Used for API responses.
*/
type UserResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	OfficeID     *string `json:"office_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

/*
|--------------------------------------------------------------------------
| MAPPER
|--------------------------------------------------------------------------
| Convert User (DB) -> UserResponse (API)
*/
func ToUserResponse(u User) UserResponse {
	var officeID, departmentID *string

	if u.OfficeID.Valid {
		officeID = &u.OfficeID.String
	}
	if u.DepartmentID.Valid {
		departmentID = &u.DepartmentID.String
	}

	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		OfficeID:     officeID,
		DepartmentID: departmentID,
	}
}
