package models

import "time"

type AuditAction string

const (
	AuditActionCreate   AuditAction = "create"
	AuditActionUpdate   AuditAction = "update"
	AuditActionDelete   AuditAction = "delete"
	AuditActionStockIn  AuditAction = "stock_in"
	AuditActionStockOut AuditAction = "stock_out"
	AuditActionImport   AuditAction = "import"
)

type AuditEntry struct {
	ID        int       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID   int    `gorm:"index" json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"`

	// "product", "batch", "order", "provider", "user"
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityKey  string `gorm:"size:100;index" json:"entity_key"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`
}

func (e AuditEntry) SearchFields() []string {
	return []string{
		e.CreatedAt.Format(DateLayout),
		e.UserName,
		e.EntityType,
		e.EntityKey,
		string(e.Action),
		e.Description,
	}
}
