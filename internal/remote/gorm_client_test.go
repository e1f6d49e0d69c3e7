package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*GormClient, *[]ChangeEvent) {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.SeedPortfolio(t, db)

	broker := NewLocalBroker()
	var events []ChangeEvent
	broker.Subscribe(func(ev ChangeEvent) { events = append(events, ev) })
	return NewGormClient(db, broker, 0), &events
}

func TestGormClientSelect(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	var props []models.Property
	require.NoError(t, c.Select(ctx, TableProperties, &props))
	require.Len(t, props, 2)
	assert.Equal(t, []string{"pool", "gym"}, []string(props[0].Amenities))

	var units []models.Unit
	require.NoError(t, c.Select(ctx, TableUnits, &units))
	require.Len(t, units, 3)
	assert.True(t, units[0].MonthlyRent.Equal(decimal.NewFromInt(3000)))

	var tenants []models.Tenant
	require.NoError(t, c.Select(ctx, TableTenants, &tenants))
	require.Len(t, tenants, 2)
	require.NotNil(t, tenants[0].EntryDate)
	assert.Equal(t, 11, tenants[0].EntryDate.Day())
}

func TestGormClientSelectUnknownTable(t *testing.T) {
	c, _ := newClient(t)
	var rows []models.Property
	err := c.Select(context.Background(), Table("leases"), &rows)
	assert.True(t, errors.Is(err, ErrUnknownTable))
}

func TestGormClientInsertPublishes(t *testing.T) {
	c, events := newClient(t)

	m := &models.Manager{Name: "Erin"}
	require.NoError(t, c.Insert(context.Background(), TableManagers, m))
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, models.ManagerActive, m.Status)

	require.Len(t, *events, 1)
	assert.Equal(t, ChangeEvent{Table: TableManagers, Kind: ChangeInsert, ID: m.ID, At: (*events)[0].At}, (*events)[0])
}

func TestGormClientInsertRejectsMismatchedTable(t *testing.T) {
	c, events := newClient(t)
	err := c.Insert(context.Background(), TableUnits, &models.Manager{Name: "x"})
	assert.True(t, errors.Is(err, ErrTableMismatch))
	assert.Empty(t, *events)
}

func TestGormClientUpdate(t *testing.T) {
	c, events := newClient(t)
	ctx := context.Background()

	require.NoError(t, c.Update(ctx, TableTenants, "ten-a1", map[string]any{
		"unit_id": nil,
		"status":  models.TenantInactive,
	}))

	var tenants []models.Tenant
	require.NoError(t, c.Select(ctx, TableTenants, &tenants))
	assert.Nil(t, tenants[0].UnitID)
	assert.Equal(t, models.TenantInactive, tenants[0].Status)
	require.Len(t, *events, 1)
	assert.Equal(t, ChangeUpdate, (*events)[0].Kind)
}

func TestGormClientUpdateMissingRow(t *testing.T) {
	c, events := newClient(t)
	err := c.Update(context.Background(), TableUnits, "nope", map[string]any{"name": "x"})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, *events)
}

func TestGormClientDelete(t *testing.T) {
	c, events := newClient(t)
	ctx := context.Background()

	require.NoError(t, c.Delete(ctx, TablePayments, "pay-a1"))
	assert.True(t, errors.Is(c.Delete(ctx, TablePayments, "pay-a1"), ErrNotFound))

	var payments []models.PaymentProof
	require.NoError(t, c.Select(ctx, TablePayments, &payments))
	assert.Len(t, payments, 1)
	assert.Len(t, *events, 1)
}
