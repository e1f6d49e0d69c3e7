package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/shopspring/decimal"
)

type PropertyRequest struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Zip       string   `json:"zip"`
	ManagerID string   `json:"manager_id"`
	Amenities []string `json:"amenities"`
}

type UnitRequest struct {
	Name        string          `json:"name"`
	PropertyID  string          `json:"property_id"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	Bedrooms    *int            `json:"bedrooms"`
	Bathrooms   *int            `json:"bathrooms"`
	SizeSqm     *float64        `json:"size_sqm"`
	FloorNumber *int            `json:"floor_number"`
}

// TenantRequest carries EntryDate as YYYY-MM-DD.
type TenantRequest struct {
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone"`
	NationalID *string             `json:"national_id"`
	UnitID     *string             `json:"unit_id"`
	Status     models.TenantStatus `json:"status"`
	EntryDate  string              `json:"entry_date"`
	RentDueDay int                 `json:"rent_due_day"`
}

type ManagerRequest struct {
	Name   string               `json:"name"`
	Email  string               `json:"email"`
	Phone  string               `json:"phone"`
	City   string               `json:"city"`
	Status models.ManagerStatus `json:"status"`
}

type AssignRequest struct {
	UnitID string `json:"unit_id"`
}

// PaymentRequest submits a proof. Tenants may omit TenantID and UnitID; they
// are taken from the caller's own tenant record.
type PaymentRequest struct {
	TenantID      string          `json:"tenant_id"`
	UnitID        string          `json:"unit_id"`
	Amount        decimal.Decimal `json:"amount"`
	Period        string          `json:"period"`
	PaymentMethod string          `json:"payment_method"`
	ProofURL      string          `json:"proof_url"`
}

type ReviewRequest struct {
	Status models.PaymentStatus `json:"status"`
}

type NotificationRequest struct {
	UserID  string                  `json:"user_id"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	Type    models.NotificationType `json:"type"`
}

type ReadRequest struct {
	Read *bool `json:"read"`
}

type NotificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}

type SyncResponse struct {
	Version   uint64    `json:"version"`
	FetchedAt time.Time `json:"fetched_at"`
}
