// Package testutil holds fixtures shared by DB-backed tests.
package testutil

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated private in-memory sqlite database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func Ptr[T any](v T) *T { return &v }

func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Portfolio is a small two-manager dataset with disjoint properties.
type Portfolio struct {
	ManagerA, ManagerB   models.Manager
	PropertyA, PropertyB models.Property
	UnitA1, UnitA2       models.Unit
	UnitB1               models.Unit
	TenantA1             models.Tenant
	TenantB1             models.Tenant
	PaymentA1            models.PaymentProof
	PaymentB1            models.PaymentProof
}

// SeedPortfolio writes the Portfolio rows straight into db.
func SeedPortfolio(t *testing.T, db *gorm.DB) Portfolio {
	t.Helper()
	p := Portfolio{
		ManagerA:  models.Manager{ID: "mgr-a", Name: "Alice", Email: "alice@example.com"},
		ManagerB:  models.Manager{ID: "mgr-b", Name: "Bob", Email: "bob@example.com"},
		PropertyA: models.Property{ID: "prop-a", Name: "Harbor View", ManagerID: "mgr-a", Amenities: []string{"pool", "gym"}},
		PropertyB: models.Property{ID: "prop-b", Name: "Cedar Court", ManagerID: "mgr-b"},
		UnitA1:    models.Unit{ID: "unit-a1", Name: "A-101", PropertyID: "prop-a", MonthlyRent: decimal.NewFromInt(3000)},
		UnitA2:    models.Unit{ID: "unit-a2", Name: "A-102", PropertyID: "prop-a", MonthlyRent: decimal.NewFromInt(2500), Status: models.UnitOccupied},
		UnitB1:    models.Unit{ID: "unit-b1", Name: "B-201", PropertyID: "prop-b", MonthlyRent: decimal.NewFromInt(1800)},
		TenantA1: models.Tenant{
			ID: "ten-a1", Name: "Carol", Email: "carol@example.com", UnitID: Ptr("unit-a1"),
			Status: models.TenantActive, EntryDate: Ptr(Date(2026, time.June, 11)), RentDueDay: 5,
		},
		TenantB1: models.Tenant{
			ID: "ten-b1", Name: "Dan", Email: "dan@example.com", UnitID: Ptr("unit-b1"),
			Status: models.TenantActive, EntryDate: Ptr(Date(2026, time.August, 1)), RentDueDay: 1,
		},
		PaymentA1: models.PaymentProof{
			ID: "pay-a1", Amount: decimal.NewFromInt(2000), Period: "June 2026", Status: models.PaymentPending,
			TenantID: "ten-a1", UnitID: "unit-a1", SubmittedAt: Date(2026, time.June, 12),
		},
		PaymentB1: models.PaymentProof{
			ID: "pay-b1", Amount: decimal.NewFromInt(1800), Period: "August 2026", Status: models.PaymentPaid,
			TenantID: "ten-b1", UnitID: "unit-b1", SubmittedAt: Date(2026, time.August, 1),
		},
	}
	for _, rec := range []any{
		&p.ManagerA, &p.ManagerB, &p.PropertyA, &p.PropertyB,
		&p.UnitA1, &p.UnitA2, &p.UnitB1, &p.TenantA1, &p.TenantB1,
		&p.PaymentA1, &p.PaymentB1,
	} {
		require.NoError(t, db.Create(rec).Error)
	}
	return p
}
