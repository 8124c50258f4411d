package handler

import (
	"fmt"
	"time"

	"backend-sevapali/internal/config"
	"backend-sevapali/internal/helper"
	"backend-sevapali/internal/models"
	"backend-sevapali/internal/queue"

	"github.com/gofiber/fiber/v2"
)

// CheckInRequest - body for QR scan check-in; either the token id or
// the printed number works.
type CheckInRequest struct {
	TokenID     string `json:"token_id"`
	TokenNumber string `json:"token_number"`
}

// CheckInToken - official scans an arriving citizen into the waiting
// queue. Scanning an already-admitted token is a no-op success.
func CheckInToken(c *fiber.Ctx) error {
	var req CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	tokenID := req.TokenID
	if tokenID == "" && req.TokenNumber != "" {
		var err error
		tokenID, err = lookupTokenID(c, req.TokenNumber)
		if err != nil {
			return queueError(c, err)
		}
	}

	token, err := Queue.CheckIn(c.Context(), tokenID, actorFromCtx(c))
	if err != nil {
		return queueError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Token %s checked in", token.TokenNumber),
		"data":    token,
	})
}

// CallNextToken - official completes the token at the counter (if any)
// and calls the earliest waiting token forward.
func CallNextToken(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	if actor.OfficeID == "" || actor.DepartmentID == "" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "Official has no assigned office/department",
		})
	}

	key, err := queue.ResolveKeyDate(actor.OfficeID, actor.DepartmentID, helper.ServiceDate(time.Now()))
	if err != nil {
		return queueError(c, err)
	}

	token, err := Queue.CallNext(c.Context(), key, actor)
	if err != nil {
		return queueError(c, err)
	}

	if token == nil {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Queue is empty",
			"data":    nil,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Token %s called", token.TokenNumber),
		"data":    token,
	})
}

// SkipToken - official defers the current citizen; the token re-queues
// behind the fifth waiter, or at the tail of a short queue.
func SkipToken(c *fiber.Ctx) error {
	tokenID := c.Params("id")

	token, err := Queue.Skip(c.Context(), tokenID, actorFromCtx(c))
	if err != nil {
		return queueError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Token %s skipped and re-queued", token.TokenNumber),
		"data":    token,
	})
}

// CompleteToken - official closes out the serving token without
// calling the next one.
func CompleteToken(c *fiber.Ctx) error {
	tokenID := c.Params("id")

	token, err := Queue.Complete(c.Context(), tokenID, actorFromCtx(c))
	if err != nil {
		return queueError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Token %s completed", token.TokenNumber),
		"data":    token,
	})
}

// GetQueueTokens - today's tokens for the official's own office and
// department, in service order.
func GetQueueTokens(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	if actor.OfficeID == "" || actor.DepartmentID == "" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "Official has no assigned office/department",
		})
	}

	today := helper.ServiceDate(time.Now())
	rows, err := config.DB.Query(`
		SELECT id, token_number, citizen_id, status, appointment_time,
		       served_by, served_at, created_at
		FROM tokens
		WHERE office_id = ?
		AND department_id = ?
		AND appointment_date = ?
		AND status IN ('pending', 'waiting', 'serving', 'completed', 'cancelled')
		ORDER BY created_at ASC, id ASC
	`, actor.OfficeID, actor.DepartmentID, today)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch queue",
		})
	}
	defer rows.Close()

	tokens := []models.Token{}
	for rows.Next() {
		var t models.Token
		err := rows.Scan(
			&t.ID,
			&t.TokenNumber,
			&t.CitizenID,
			&t.Status,
			&t.AppointmentTime,
			&t.ServedBy,
			&t.ServedAt,
			&t.CreatedAt,
		)
		if err != nil {
			continue
		}
		t.OfficeID = actor.OfficeID
		t.DepartmentID = actor.DepartmentID
		t.AppointmentDate = today
		tokens = append(tokens, t)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    tokens,
	})
}

func lookupTokenID(c *fiber.Ctx, tokenNumber string) (string, error) {
	var id string
	err := config.DB.QueryRowContext(c.Context(), `
		SELECT id FROM tokens
		WHERE token_number = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, tokenNumber).Scan(&id)
	if err != nil {
		return "", queue.ErrNotFound
	}
	return id, nil
}
