package config

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTClaims struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	OfficeID     *string `json:"office_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(userID, name, email, role string, officeID, departmentID *string) (string, error) {
	claims := JWTClaims{
		UserID:       userID,
		Name:         name,
		Email:        email,
		Role:         role,
		OfficeID:     officeID,
		DepartmentID: departmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        jwtID(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// jwtID gives each session token a unique jti so logout can denylist
// individual tokens in Redis.
func jwtID() string {
	return uuid.NewString()
}
