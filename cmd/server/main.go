package main

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"profitpulse-backend/internal/analytics"
	"profitpulse-backend/internal/audit"
	"profitpulse-backend/internal/auth"
	"profitpulse-backend/internal/config"
	"profitpulse-backend/internal/database"
	"profitpulse-backend/internal/expense"
	"profitpulse-backend/internal/httpx"
	"profitpulse-backend/internal/item"
	"profitpulse-backend/internal/logging"
	"profitpulse-backend/internal/models"
	"profitpulse-backend/internal/sale"
)

func main() {
	logging.Setup()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment")
	}

	cfg := config.Load()
	database.Init(cfg)
	mailer := auth.NewMailer(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: httpx.ErrorHandler,
	})

	app.Use(logging.RequestLogger())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/forgot-password", auth.ForgotPasswordHandler(cfg, mailer))
	api.Post("/auth/reset-password", auth.ResetPasswordHandler())

	// Everything below requires a bearer token.
	protected := api.Group("", auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Mutations additionally require the admin role.
	adminOnly := auth.RequireRole(models.RoleAdmin)

	// Items
	protected.Get("/items", item.ListItemsHandler())
	protected.Get("/items/:id", item.GetItemHandler())
	protected.Post("/items", adminOnly, item.CreateItemHandler())
	protected.Post("/items/import", adminOnly, item.ImportItemsHandler())
	protected.Put("/items/:id/restore", adminOnly, item.RestoreItemHandler())
	protected.Put("/items/:id", adminOnly, item.UpdateItemHandler())
	protected.Delete("/items/:id", adminOnly, item.DeleteItemHandler())

	// Sales
	protected.Get("/sales", sale.ListSalesHandler())
	protected.Get("/sales/:id", sale.GetSaleHandler())
	protected.Post("/sales", adminOnly, sale.CreateSaleHandler())

	// Expenses
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Post("/expenses", adminOnly, expense.CreateExpenseHandler())
	protected.Put("/expenses/:id", adminOnly, expense.UpdateExpenseHandler())
	protected.Delete("/expenses/:id", adminOnly, expense.DeleteExpenseHandler())

	// Audit trail
	protected.Get("/audits", audit.ListAuditsHandler())

	// Analytics
	protected.Get("/analytics/overview", analytics.OverviewHandler())
	protected.Get("/analytics/monthly", analytics.MonthlyHandler())
	protected.Get("/analytics/expense-stats", analytics.ExpenseStatsHandler())

	log.Info().Str("port", cfg.HTTPPort).Msg("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
