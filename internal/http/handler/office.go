package handler

import (
	"database/sql"
	"time"

	"backend-sevapali/internal/config"
	"backend-sevapali/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetAllOffices - public catalog of offices, optionally filtered by
// active flag or district.
func GetAllOffices(c *fiber.Ctx) error {
	isActive := c.Query("is_active")
	district := c.Query("district")

	query := `SELECT id, code, name, district, state, is_active, open_time, close_time,
	          created_at, updated_at FROM offices WHERE 1=1`
	args := []interface{}{}

	if isActive != "" {
		query += " AND is_active = ?"
		args = append(args, isActive)
	}
	if district != "" {
		query += " AND district = ?"
		args = append(args, district)
	}

	query += " ORDER BY name ASC"

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch offices",
		})
	}
	defer rows.Close()

	offices := []models.Office{}
	for rows.Next() {
		var office models.Office
		err := rows.Scan(
			&office.ID,
			&office.Code,
			&office.Name,
			&office.District,
			&office.State,
			&office.IsActive,
			&office.OpenTime,
			&office.CloseTime,
			&office.CreatedAt,
			&office.UpdatedAt,
		)
		if err != nil {
			continue
		}
		offices = append(offices, office)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    offices,
	})
}

// GetOfficeByID - one office with its departments.
func GetOfficeByID(c *fiber.Ctx) error {
	officeID := c.Params("id")

	var office models.Office
	err := config.DB.QueryRow(`
		SELECT id, code, name, district, state, is_active, open_time, close_time,
		       created_at, updated_at
		FROM offices WHERE id = ?
	`, officeID).Scan(
		&office.ID,
		&office.Code,
		&office.Name,
		&office.District,
		&office.State,
		&office.IsActive,
		&office.OpenTime,
		&office.CloseTime,
		&office.CreatedAt,
		&office.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Office not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch office",
		})
	}

	rows, err := config.DB.Query(`
		SELECT id, office_id, name, code, avg_service_minutes, is_active,
		       created_at, updated_at
		FROM departments WHERE office_id = ? ORDER BY name ASC
	`, officeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch departments",
		})
	}
	defer rows.Close()

	departments := []models.Department{}
	for rows.Next() {
		var dept models.Department
		err := rows.Scan(
			&dept.ID,
			&dept.OfficeID,
			&dept.Name,
			&dept.Code,
			&dept.AvgServiceMinutes,
			&dept.IsActive,
			&dept.CreatedAt,
			&dept.UpdatedAt,
		)
		if err != nil {
			continue
		}
		departments = append(departments, dept)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"office":      office,
			"departments": departments,
		},
	})
}

// CreateOffice - super admin adds an office.
func CreateOffice(c *fiber.Ctx) error {
	var req models.CreateOfficeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.Code == "" || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "code and name are required",
		})
	}

	if req.IsActive == "" {
		req.IsActive = "y"
	}
	if req.OpenTime == "" {
		req.OpenTime = "09:00:00"
	}
	if req.CloseTime == "" {
		req.CloseTime = "17:00:00"
	}

	id := uuid.NewString()
	now := time.Now()
	_, err := config.DB.Exec(`
		INSERT INTO offices (id, code, name, district, state, is_active, open_time, close_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, req.Code, req.Name, req.District, req.State, req.IsActive, req.OpenTime, req.CloseTime, now, now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create office",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Office created",
		"data":    fiber.Map{"id": id},
	})
}

// UpdateOffice - super admin edits an office; empty fields keep their
// current value.
func UpdateOffice(c *fiber.Ctx) error {
	officeID := c.Params("id")

	var req models.UpdateOfficeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	result, err := config.DB.Exec(`
		UPDATE offices SET
			code = COALESCE(NULLIF(?, ''), code),
			name = COALESCE(NULLIF(?, ''), name),
			district = COALESCE(NULLIF(?, ''), district),
			state = COALESCE(NULLIF(?, ''), state),
			is_active = COALESCE(NULLIF(?, ''), is_active),
			open_time = COALESCE(NULLIF(?, ''), open_time),
			close_time = COALESCE(NULLIF(?, ''), close_time),
			updated_at = NOW()
		WHERE id = ?
	`, req.Code, req.Name, req.District, req.State, req.IsActive, req.OpenTime, req.CloseTime, officeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to update office",
		})
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Office not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Office updated",
	})
}

// CreateDepartment - super admin adds a department under an office.
func CreateDepartment(c *fiber.Ctx) error {
	var req models.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.OfficeID == "" || req.Name == "" || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "office_id, name and code are required",
		})
	}

	var exists int
	err := config.DB.QueryRow("SELECT COUNT(*) FROM offices WHERE id = ?", req.OfficeID).Scan(&exists)
	if err != nil || exists == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Office not found",
		})
	}

	if req.AvgServiceMinutes <= 0 {
		req.AvgServiceMinutes = 15
	}
	if req.IsActive == "" {
		req.IsActive = "y"
	}

	id := uuid.NewString()
	now := time.Now()
	_, err = config.DB.Exec(`
		INSERT INTO departments (id, office_id, name, code, avg_service_minutes, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, req.OfficeID, req.Name, req.Code, req.AvgServiceMinutes, req.IsActive, now, now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create department",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Department created",
		"data":    fiber.Map{"id": id},
	})
}

// UpdateDepartment - super admin edits a department. Changing
// avg_service_minutes invalidates the Redis cache the position
// estimator reads.
func UpdateDepartment(c *fiber.Ctx) error {
	departmentID := c.Params("id")

	var req models.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	var officeID string
	err := config.DB.QueryRow("SELECT office_id FROM departments WHERE id = ?", departmentID).Scan(&officeID)
	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Department not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch department",
		})
	}

	avgMinutes := -1
	if req.AvgServiceMinutes != nil {
		avgMinutes = *req.AvgServiceMinutes
	}

	_, err = config.DB.Exec(`
		UPDATE departments SET
			name = COALESCE(NULLIF(?, ''), name),
			code = COALESCE(NULLIF(?, ''), code),
			avg_service_minutes = IF(? >= 0, ?, avg_service_minutes),
			is_active = COALESCE(NULLIF(?, ''), is_active),
			updated_at = NOW()
		WHERE id = ?
	`, req.Name, req.Code, avgMinutes, avgMinutes, req.IsActive, departmentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to update department",
		})
	}

	if req.AvgServiceMinutes != nil {
		_ = config.Redis.Del(c.Context(), "svc_minutes:"+officeID+":"+departmentID).Err()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Department updated",
	})
}
