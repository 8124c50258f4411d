package handler

import (
	"database/sql"
	"time"

	"backend-sevapali/internal/config"
	"backend-sevapali/internal/helper"

	"github.com/gofiber/fiber/v2"
)

// DisplayQueueData - one row on the public display board.
type DisplayQueueData struct {
	OfficeID       string `json:"office_id"`
	OfficeName     string `json:"office_name"`
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
	DepartmentCode string `json:"department_code"`
	CurrentToken   string `json:"current_token"`
	TotalWaiting   int    `json:"total_waiting"`
	TotalServed    int    `json:"total_served"`
}

// GetQueueDisplay - public endpoint feeding the waiting-hall boards:
// per active department, the token at the counter plus waiting and
// served counts for today.
func GetQueueDisplay(c *fiber.Ctx) error {
	today := helper.ServiceDate(time.Now())

	query := `
		SELECT
			o.id AS office_id,
			o.name AS office_name,
			d.id AS department_id,
			d.name AS department_name,
			d.code AS department_code,
			(
				SELECT t.token_number
				FROM tokens t
				WHERE t.office_id = o.id
				AND t.department_id = d.id
				AND t.status = 'serving'
				AND t.appointment_date = ?
				LIMIT 1
			) AS current_token,
			(
				SELECT COUNT(*)
				FROM tokens t
				WHERE t.office_id = o.id
				AND t.department_id = d.id
				AND t.status = 'waiting'
				AND t.appointment_date = ?
			) AS total_waiting,
			(
				SELECT COUNT(*)
				FROM tokens t
				WHERE t.office_id = o.id
				AND t.department_id = d.id
				AND t.status = 'completed'
				AND t.appointment_date = ?
			) AS total_served
		FROM offices o
		INNER JOIN departments d ON d.office_id = o.id
		WHERE o.is_active = 'y'
		AND d.is_active = 'y'
		ORDER BY o.name, d.name
	`

	rows, err := config.DB.Query(query, today, today, today)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch display data",
		})
	}
	defer rows.Close()

	var displays []DisplayQueueData

	for rows.Next() {
		var display DisplayQueueData
		var currentToken sql.NullString

		err := rows.Scan(
			&display.OfficeID,
			&display.OfficeName,
			&display.DepartmentID,
			&display.DepartmentName,
			&display.DepartmentCode,
			&currentToken,
			&display.TotalWaiting,
			&display.TotalServed,
		)
		if err != nil {
			continue
		}

		if currentToken.Valid {
			display.CurrentToken = currentToken.String
		} else {
			display.CurrentToken = "---"
		}

		displays = append(displays, display)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    displays,
	})
}

// GetTodayStats - aggregate counters for the official dashboard.
func GetTodayStats(c *fiber.Ctx) error {
	today := helper.ServiceDate(time.Now())

	var total, served, waiting, serving int
	err := config.DB.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(status = 'completed'), 0),
			COALESCE(SUM(status IN ('waiting', 'pending')), 0),
			COALESCE(SUM(status = 'serving'), 0)
		FROM tokens
		WHERE appointment_date = ?
	`, today).Scan(&total, &served, &waiting, &serving)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch stats",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total":   total,
			"served":  served,
			"waiting": waiting,
			"serving": serving,
		},
	})
}
