package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRejected PaymentStatus = "rejected"
	PaymentPartial  PaymentStatus = "partial"
)

// PaymentProof is a tenant's claim of a rent payment awaiting review.
// Reviews move it from pending to paid or rejected, nothing else.
type PaymentProof struct {
	ID            string          `gorm:"size:36;primaryKey" json:"id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Period        string          `gorm:"size:50;not null;index" json:"period"` // "January 2006"
	Status        PaymentStatus   `gorm:"size:20;default:'pending';index" json:"status"`
	PaymentMethod string          `gorm:"size:50" json:"payment_method"`
	ProofURL      string          `gorm:"type:text" json:"proof_url,omitempty"`
	TenantID      string          `gorm:"size:36;not null;index" json:"tenant_id"`
	UnitID        string          `gorm:"size:36;not null;index" json:"unit_id"`
	SubmittedAt   time.Time       `gorm:"not null" json:"submitted_at"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`
	ReviewedBy    *string         `gorm:"size:36" json:"reviewed_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (PaymentProof) TableName() string { return "payments" }

func (p *PaymentProof) BeforeCreate(tx *gorm.DB) error {
	newID(&p.ID)
	if p.Status == "" {
		p.Status = PaymentPending
	}
	if p.SubmittedAt.IsZero() {
		p.SubmittedAt = time.Now().UTC()
	}
	return nil
}
