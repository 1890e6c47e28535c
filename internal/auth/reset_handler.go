package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"profitpulse-backend/internal/config"
	"profitpulse-backend/internal/database"
	"profitpulse-backend/internal/httpx"
	"profitpulse-backend/internal/models"
)

const resetTokenTTL = 10 * time.Minute

const resetSentMessage = "If an account with that email exists, a password reset link has been sent."

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// POST /api/auth/forgot-password
//
// The response is identical whether or not the account exists, and the
// token is generated up front so both paths do comparable work.
func ForgotPasswordHandler(cfg *config.Config, mailer Mailer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ForgotPasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not process request")
		}
		rawToken := hex.EncodeToString(raw)
		tokenHash := hashResetToken(rawToken)
		expires := time.Now().Add(resetTokenTTL)

		var admin models.Admin
		found := database.DB.Where("email = ?", body.Email).First(&admin).Error == nil

		if found {
			err := database.DB.Model(&admin).Updates(map[string]any{
				"password_reset_token":   tokenHash,
				"password_reset_expires": expires,
			}).Error
			if err != nil {
				log.Error().Err(err).Msg("could not store reset token")
			} else {
				resetURL := cfg.FrontendURL + "/?token=" + rawToken
				if err := mailer.SendPasswordReset(admin.Email, resetURL); err != nil {
					log.Error().Err(err).Msg("could not send reset mail")
				}
			}
		}

		return httpx.OK(c, fiber.Map{"message": resetSentMessage})
	}
}

// POST /api/auth/reset-password
func ResetPasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ResetPasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Token == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Token and password are required")
		}

		tokenHash := hashResetToken(body.Token)

		var admin models.Admin
		err := database.DB.
			Where("password_reset_token = ? AND password_reset_expires > ?", tokenHash, time.Now()).
			First(&admin).Error
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Password reset token is invalid or has expired")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		err = database.DB.Model(&admin).Updates(map[string]any{
			"password_hash":          string(hash),
			"password_reset_token":   nil,
			"password_reset_expires": nil,
		}).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not reset password")
		}

		return httpx.OK(c, fiber.Map{"message": "Password has been reset successfully."})
	}
}
