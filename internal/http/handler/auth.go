package handler

import (
	"database/sql"

	"backend-sevapali/internal/config"
	"backend-sevapali/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	if req.RecaptchaToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "reCAPTCHA token is required",
		})
	}

	ok, score, err := config.VerifyRecaptcha(req.RecaptchaToken)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "reCAPTCHA verification failed",
		})
	}

	if !ok || score < 0.5 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Suspicious activity detected",
		})
	}

	var user models.User
	query := `SELECT id, name, email, password, role, is_banned, office_id, department_id
	          FROM users WHERE email = ?`
	err = config.DB.QueryRow(query, req.Email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.IsBanned,
		&user.OfficeID,
		&user.DepartmentID,
	)

	if err == sql.ErrNoRows {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Wrong email or password",
		})
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Database error",
		})
	}

	if user.IsBanned == "y" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Your account has been blocked",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Wrong email or password",
		})
	}

	var officeID, departmentID *string
	if user.OfficeID.Valid {
		officeID = &user.OfficeID.String
	}
	if user.DepartmentID.Valid {
		departmentID = &user.DepartmentID.String
	}

	token, err := config.GenerateToken(user.ID, user.Name, user.Email, user.Role, officeID, departmentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"user":    models.ToUserResponse(user),
		"message": "Welcome back, " + user.Name,
	})
}
