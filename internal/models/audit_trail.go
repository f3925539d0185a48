package models

import "time"

type AuditAction string

const (
	AuditActionCreated     AuditAction = "Created"
	AuditActionUpdated     AuditAction = "Updated"
	AuditActionSoftDeleted AuditAction = "SoftDeleted"
	AuditActionRestored    AuditAction = "Restored"
)

// AuditTrail - Ortak denetim alanları. Kayıtlar append-only: asla güncellenmez,
// asla silinmez ve konu kaydın soft delete durumuna göre filtrelenmez.
type AuditTrail struct {
	Action     AuditAction `gorm:"size:20;not null" json:"action"`
	OldValue   *string     `json:"old_value"` // Önceki hal (JSON)
	NewValue   *string     `json:"new_value"` // Sonraki hal (JSON)
	ActionBy   string      `gorm:"size:100" json:"action_by"`
	ActionDate time.Time   `gorm:"not null" json:"action_date"` // UTC
	Remarks    string      `gorm:"size:1500" json:"remarks"`
}

type BranchProductAuditTrail struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BranchID   uint `gorm:"index:idx_bp_audit_key" json:"branch_id"`
	ProductID  uint `gorm:"index:idx_bp_audit_key" json:"product_id"`
	AuditTrail `gorm:"embedded"`
}

type ProductAuditTrail struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProductID  uint `gorm:"index" json:"product_id"`
	AuditTrail `gorm:"embedded"`
}
