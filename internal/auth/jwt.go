package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"profitpulse-backend/internal/models"
)

type JWTCustomClaims struct {
	AdminID uint             `json:"admin_id"`
	Role    models.AdminRole `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, ttl time.Duration, admin *models.Admin) (string, error) {
	claims := &JWTCustomClaims{
		AdminID: admin.ID,
		Role:    admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
