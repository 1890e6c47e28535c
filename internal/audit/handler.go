package audit

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"profitpulse-backend/internal/database"
	"profitpulse-backend/internal/httpx"
	"profitpulse-backend/internal/models"
)

type AuditResponse struct {
	AuditID     uint               `json:"audit_id"`
	AdminID     uint               `json:"admin_id"`
	Username    string             `json:"username"`
	Action      models.AuditAction `json:"action"`
	Resource    string             `json:"resource"`
	ResourceID  uint               `json:"resource_id"`
	BeforeState string             `json:"before_state"`
	AfterState  string             `json:"after_state"`
	IPAddress   string             `json:"ip_address"`
	CreatedAt   time.Time          `json:"created_at"`
}

type ListAuditsResponse struct {
	Audits []AuditResponse `json:"audits"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// GET /api/audits?page=1&limit=20&action=SALE&resource=items&adminId=1&search=bob
func ListAuditsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := httpx.ParsePage(c)

		dbq := database.DB.Model(&models.Audit{}).
			Joins("LEFT JOIN admins ON admins.id = audits.admin_id")

		if action := c.Query("action"); action != "" {
			dbq = dbq.Where("audits.action = ?", action)
		}
		if resource := c.Query("resource"); resource != "" {
			dbq = dbq.Where("audits.resource = ?", resource)
		}
		if adminID := c.QueryInt("adminId", 0); adminID > 0 {
			dbq = dbq.Where("audits.admin_id = ?", adminID)
		}
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			dbq = dbq.Where("admins.username LIKE ? OR audits.resource LIKE ?", like, like)
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audits")
		}

		type row struct {
			models.Audit
			Username string
		}
		var rows []row
		if err := dbq.
			Select("audits.*, admins.username AS username").
			Order("audits.created_at DESC, audits.id DESC").
			Limit(page.Limit).Offset(page.Offset()).
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audits")
		}

		audits := make([]AuditResponse, 0, len(rows))
		for _, r := range rows {
			audits = append(audits, AuditResponse{
				AuditID:     r.Audit.ID,
				AdminID:     r.Audit.AdminID,
				Username:    r.Username,
				Action:      r.Audit.Action,
				Resource:    r.Audit.Resource,
				ResourceID:  r.Audit.ResourceID,
				BeforeState: r.Audit.BeforeState,
				AfterState:  r.Audit.AfterState,
				IPAddress:   r.Audit.IPAddress,
				CreatedAt:   r.Audit.CreatedAt,
			})
		}

		return httpx.OK(c, ListAuditsResponse{
			Audits: audits,
			Total:  total,
			Page:   page.Page,
			Limit:  page.Limit,
		})
	}
}
