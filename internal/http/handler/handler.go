package handler

import (
	"errors"

	"backend-sevapali/internal/queue"

	"github.com/gofiber/fiber/v2"
)

// Queue is the shared scheduler instance, wired up in main.
var Queue *queue.Scheduler

func InitQueue(s *queue.Scheduler) {
	Queue = s
}

// queueError maps scheduler sentinels to HTTP responses. Conflict and
// timeout get statuses the frontend retries on.
func queueError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Queue operation failed"

	switch {
	case errors.Is(err, queue.ErrInvalidArgument):
		status = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, queue.ErrNotFound):
		status = fiber.StatusNotFound
		message = "Token not found"
	case errors.Is(err, queue.ErrInvalidTransition):
		status = fiber.StatusConflict
		message = err.Error()
	case errors.Is(err, queue.ErrStaleDate):
		status = fiber.StatusUnprocessableEntity
		message = "Token is not valid for today"
	case errors.Is(err, queue.ErrPermissionScope):
		status = fiber.StatusForbidden
		message = "You do not have access to this queue"
	case errors.Is(err, queue.ErrConcurrencyConflict):
		status = fiber.StatusConflict
		message = "Queue changed underneath this request, please retry"
	case errors.Is(err, queue.ErrTimeout):
		status = fiber.StatusGatewayTimeout
		message = "Request timed out, please retry"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// actorFromCtx rebuilds the scheduler actor from the JWT locals set by
// the auth middleware.
func actorFromCtx(c *fiber.Ctx) queue.Actor {
	actor := queue.Actor{
		ID:   c.Locals("user_id").(string),
		Role: c.Locals("role").(string),
	}
	if officeID, ok := c.Locals("office_id").(string); ok {
		actor.OfficeID = officeID
	}
	if departmentID, ok := c.Locals("department_id").(string); ok {
		actor.DepartmentID = departmentID
	}
	return actor
}
