package audit

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"profitpulse-backend/internal/models"
)

// Entry describes one admin action to be appended to the audit trail.
type Entry struct {
	AdminID    uint
	Action     models.AuditAction
	Resource   string
	ResourceID uint
	Before     any
	After      any
	IPAddress  string
}

// Record appends one audit row. The caller chooses the *gorm.DB: the
// shared handle for best-effort logging after item/expense mutations,
// or an open transaction on the sale path so the row commits (or rolls
// back) together with the sale.
func Record(db *gorm.DB, e Entry) error {
	// jsonb columns reject the empty string, so missing snapshots are
	// stored as the JSON literal null.
	beforeStr := "null"
	afterStr := "null"

	if e.Before != nil {
		if b, err := json.Marshal(e.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if e.After != nil {
		if b, err := json.Marshal(e.After); err == nil {
			afterStr = string(b)
		}
	}

	row := models.Audit{
		AdminID:     e.AdminID,
		Action:      e.Action,
		Resource:    e.Resource,
		ResourceID:  e.ResourceID,
		BeforeState: beforeStr,
		AfterState:  afterStr,
		IPAddress:   e.IPAddress,
	}

	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("audit row could not be written: %w", err)
	}
	return nil
}

// RecordBestEffort logs and swallows the error. Item and expense
// mutations do not roll back when the audit write fails.
func RecordBestEffort(db *gorm.DB, e Entry) {
	if err := Record(db, e); err != nil {
		log.Error().Err(err).
			Str("resource", e.Resource).
			Uint("resource_id", e.ResourceID).
			Msg("audit write failed")
	}
}
