package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"profitpulse-backend/internal/config"
	"profitpulse-backend/internal/database"
	"profitpulse-backend/internal/httpx"
	"profitpulse-backend/internal/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminResponse struct {
	ID        uint             `json:"id"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	FullName  string           `json:"full_name"`
	Role      models.AdminRole `json:"role"`
	CreatedAt time.Time        `json:"created_at"`
}

func adminResponse(a *models.Admin) AdminResponse {
	return AdminResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FullName:  a.FullName,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(body.Username)
		if body.Username == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Username and password are required")
		}

		// Unknown user and wrong password answer identically.
		var admin models.Admin
		if err := database.DB.Where("username = ?", body.Username).First(&admin).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour, &admin)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create token")
		}

		return httpx.OK(c, fiber.Map{
			"token": token,
			"admin": adminResponse(&admin),
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := AdminID(c)
		if err != nil {
			return err
		}

		var admin models.Admin
		if err := database.DB.First(&admin, adminID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Admin not found")
		}

		return httpx.OK(c, adminResponse(&admin))
	}
}
