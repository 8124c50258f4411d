package handler

import (
	"fmt"

	"backend-sevapali/internal/config"
	"backend-sevapali/internal/models"

	"github.com/gofiber/fiber/v2"
)

// BookToken - citizen books an appointment token. The token starts as
// pending; it only enters the queue when an official checks it in.
func BookToken(c *fiber.Ctx) error {
	citizenID := c.Locals("user_id").(string)

	var req models.BookTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	token, err := Queue.Book(c.Context(), citizenID, req)
	if err != nil {
		return queueError(c, err)
	}

	// Daily booking counter per department, for the display boards.
	counterKey := fmt.Sprintf("bookings:%s:%s:%s", token.OfficeID, token.DepartmentID, token.AppointmentDate)
	bookedToday, _ := config.Redis.Incr(c.Context(), counterKey).Result()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Token booked",
		"data": fiber.Map{
			"token":        token,
			"booked_today": bookedToday,
		},
	})
}

// GetMyTokens - citizen lists their own tokens, newest appointment
// first.
func GetMyTokens(c *fiber.Ctx) error {
	citizenID := c.Locals("user_id").(string)

	rows, err := config.DB.Query(`
		SELECT id, token_number, office_id, department_id, status,
		       appointment_date, appointment_time, created_at
		FROM tokens
		WHERE citizen_id = ?
		ORDER BY appointment_date DESC, appointment_time DESC
	`, citizenID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch tokens",
		})
	}
	defer rows.Close()

	tokens := []models.Token{}
	for rows.Next() {
		var t models.Token
		err := rows.Scan(
			&t.ID,
			&t.TokenNumber,
			&t.OfficeID,
			&t.DepartmentID,
			&t.Status,
			&t.AppointmentDate,
			&t.AppointmentTime,
			&t.CreatedAt,
		)
		if err != nil {
			continue
		}
		t.CitizenID = citizenID
		tokens = append(tokens, t)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    tokens,
	})
}

// CancelToken - citizen withdraws a pending or waiting token.
func CancelToken(c *fiber.Ctx) error {
	tokenID := c.Params("id")
	actor := actorFromCtx(c)

	token, err := Queue.Cancel(c.Context(), tokenID, actor)
	if err != nil {
		return queueError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Token %s cancelled", token.TokenNumber),
		"data":    token,
	})
}

// GetTokenPosition - live rank and wait estimate for a waiting token.
func GetTokenPosition(c *fiber.Ctx) error {
	tokenID := c.Params("id")

	position, err := Queue.Position(c.Context(), tokenID)
	if err != nil {
		return queueError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    position,
	})
}
