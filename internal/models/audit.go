package models

import "time"

type AuditAction string

const (
	AuditActionCreate  AuditAction = "CREATE"
	AuditActionUpdate  AuditAction = "UPDATE"
	AuditActionDelete  AuditAction = "DELETE"
	AuditActionRestore AuditAction = "RESTORE"
	AuditActionSale    AuditAction = "SALE"
)

// Audit rows are append-only; nothing in the application updates or
// deletes them.
type Audit struct {
	ID        uint      `gorm:"primaryKey" json:"audit_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Acting admin.
	AdminID uint   `gorm:"index;not null" json:"admin_id"`
	Admin   *Admin `json:"-"`

	Action AuditAction `gorm:"size:20;index" json:"action"`

	// Resource type ("items", "expenses", "sales") and primary key.
	Resource   string `gorm:"size:50;index" json:"resource"`
	ResourceID uint   `gorm:"index" json:"resource_id"`

	// Snapshots serialized as JSON; "null" when there is no before/after.
	BeforeState string `gorm:"type:jsonb" json:"before_state"`
	AfterState  string `gorm:"type:jsonb" json:"after_state"`

	IPAddress string `gorm:"size:64" json:"ip_address"`
}
