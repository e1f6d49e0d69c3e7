package projection

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/ledger"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/remote"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var today = testutil.Date(2026, time.October, 18)

func snapshot(t *testing.T, extra ...func(db *gorm.DB)) *store.Snapshot {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.SeedPortfolio(t, db)
	for _, fn := range extra {
		fn(db)
	}
	snap, err := store.New(remote.NewGormClient(db, nil, 0)).FetchAll(context.Background())
	require.NoError(t, err)
	return snap
}

var (
	alice = session.Identity{ID: "mgr-a", UserID: "user-alice", Email: "alice@example.com", Role: session.RoleManager}
	bob   = session.Identity{ID: "mgr-b", UserID: "user-bob", Email: "bob@example.com", Role: session.RoleManager}
	carol = session.Identity{ID: "user-carol", UserID: "user-carol", Email: "carol@example.com", Role: session.RoleTenant}
	root  = session.Identity{ID: "user-root", UserID: "user-root", Email: "root@example.com", Role: session.RoleSuperAdmin}
)

func TestManagerViewIsolation(t *testing.T) {
	snap := snapshot(t)

	a := ManagerView(snap, alice, today)
	b := ManagerView(snap, bob, today)

	require.NotNil(t, a.Manager)
	assert.Equal(t, "Alice", a.Manager.Name)
	assert.Len(t, a.Properties, 1)
	assert.Len(t, a.Units, 2)
	assert.Len(t, b.Units, 1)

	for _, u := range a.Units {
		assert.Equal(t, "prop-a", u.PropertyID)
	}
	for _, u := range b.Units {
		assert.Equal(t, "prop-b", u.PropertyID)
	}
	for _, p := range a.Payments {
		assert.NotEqual(t, "unit-b1", p.UnitID)
	}
	for _, e := range a.Ledger {
		assert.Equal(t, "ten-a1", e.TenantID)
	}
	require.Len(t, b.Tenants, 1)
	assert.Equal(t, "Dan", b.Tenants[0].Name)
}

func TestManagerViewStats(t *testing.T) {
	snap := snapshot(t)
	s := ManagerView(snap, alice, today).Stats

	assert.Equal(t, 1, s.Properties)
	assert.Equal(t, 2, s.Units)
	assert.Equal(t, 1, s.OccupiedUnits)
	assert.Equal(t, 1, s.VacantUnits)
	assert.Equal(t, 50.0, s.OccupancyRate)
	assert.True(t, s.MonthlyRevenue.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, 1, s.PendingPayments)
	assert.True(t, s.Collected.IsZero())
	assert.True(t, s.Outstanding.IsPositive())
}

func TestManagerWithoutPropertiesSeesNothing(t *testing.T) {
	snap := snapshot(t)
	d := ManagerView(snap, session.Identity{ID: "mgr-z", Role: session.RoleManager}, today)

	assert.Nil(t, d.Manager)
	assert.Empty(t, d.Units)
	assert.Empty(t, d.Payments)
	assert.Zero(t, d.Stats.OccupancyRate)
}

func TestEmptySnapshotRatiosAreZero(t *testing.T) {
	empty := store.New(remote.NewGormClient(testutil.NewDB(t), nil, 0)).Snapshot()

	admin := SuperAdminView(empty, today)
	assert.Zero(t, admin.Stats.Units)
	assert.Zero(t, admin.Stats.OccupancyRate)
	assert.Zero(t, percent(0, 0))
	assert.Equal(t, 33.3, percent(1, 3))
}

func TestTenantViewGates(t *testing.T) {
	snap := snapshot(t, func(db *gorm.DB) {
		require.NoError(t, db.Create(&models.Tenant{
			ID: "ten-gone", Name: "Gina", Email: "gina@example.com",
			UnitID: testutil.Ptr("unit-a2"), Status: models.TenantInactive,
		}).Error)
		require.NoError(t, db.Create(&models.Tenant{
			ID: "ten-new", Name: "Hank", Email: "hank@example.com", Status: models.TenantActive,
		}).Error)
	})

	cases := []struct {
		email string
		gate  TenantGate
	}{
		{"nobody@example.com", GateNoAccount},
		{"", GateNoAccount},
		{"gina@example.com", GateInactive},
		{"hank@example.com", GatePendingAssignment},
		{"carol@example.com", GateActive},
	}
	for _, tc := range cases {
		d := TenantView(snap, session.Identity{Email: tc.email, Role: session.RoleTenant}, today)
		assert.Equal(t, tc.gate, d.Gate, tc.email)
		if tc.gate != GateActive {
			assert.Nil(t, d.Unit, tc.email)
			assert.Empty(t, d.Ledger, tc.email)
		}
	}

	// inactive wins even though a unit is still set
	u, _ := snap.Unit("unit-a2")
	assert.Equal(t, models.UnitVacant, u.Status)
}

func TestTenantViewActiveDashboard(t *testing.T) {
	snap := snapshot(t)
	d := TenantView(snap, session.Identity{Email: "  Carol@Example.com ", Role: session.RoleTenant}, today)

	require.Equal(t, GateActive, d.Gate)
	require.NotNil(t, d.Unit)
	require.NotNil(t, d.Property)
	assert.Equal(t, "A-101", d.Unit.Name)
	assert.Equal(t, "Harbor View", d.Property.Name)
	require.Len(t, d.Payments, 1)
	assert.Equal(t, "pay-a1", d.Payments[0].ID)
	assert.Len(t, d.Ledger, 5)
	assert.True(t, d.Balance.IsPositive())
}

func TestDashboardDispatch(t *testing.T) {
	snap := snapshot(t)

	v, err := Dashboard(snap, root, today)
	require.NoError(t, err)
	admin, ok := v.(AdminDashboard)
	require.True(t, ok)
	assert.Len(t, admin.Units, 3)
	assert.Equal(t, 66.7, admin.Stats.OccupancyRate)
	require.Len(t, admin.Managers, 2)
	assert.Equal(t, 1, admin.Managers[0].Properties)
	assert.Equal(t, 2, admin.Managers[0].Units)
	assert.Equal(t, 50.0, admin.Managers[0].OccupancyRate)

	v, err = Dashboard(snap, alice, today)
	require.NoError(t, err)
	assert.IsType(t, ManagerDashboard{}, v)

	v, err = Dashboard(snap, carol, today)
	require.NoError(t, err)
	assert.IsType(t, TenantDashboard{}, v)

	_, err = Dashboard(snap, session.Identity{Role: "janitor"}, today)
	assert.Error(t, err)
}

func TestLedgerFor(t *testing.T) {
	snap := snapshot(t)

	assert.Len(t, LedgerFor(snap, root, today), 8)
	assert.Len(t, LedgerFor(snap, alice, today), 5)
	assert.Len(t, LedgerFor(snap, bob, today), 3)
	assert.Len(t, LedgerFor(snap, carol, today), 5)
	assert.Empty(t, LedgerFor(snap, session.Identity{Email: "x@example.com", Role: session.RoleTenant}, today))

	for _, e := range LedgerFor(snap, carol, today) {
		assert.NotEqual(t, ledger.StatusPaid, e.Status, "Carol has no reviewed payments")
	}
}

func TestRecentActivity(t *testing.T) {
	reviewed := testutil.Date(2026, time.September, 1)
	payments := []store.PaymentRow{
		{PaymentProof: models.PaymentProof{ID: "old", SubmittedAt: testutil.Date(2026, time.June, 1)}},
		{PaymentProof: models.PaymentProof{ID: "reviewed", SubmittedAt: testutil.Date(2026, time.May, 1), ReviewedAt: &reviewed}},
		{PaymentProof: models.PaymentProof{ID: "new", SubmittedAt: testutil.Date(2026, time.August, 1)}},
	}

	feed := RecentActivity(payments, 2)
	require.Len(t, feed, 2)
	assert.Equal(t, "reviewed", feed[0].PaymentID)
	assert.Equal(t, "new", feed[1].PaymentID)
	assert.Empty(t, RecentActivity(nil, 5))
}

func TestNotificationsFor(t *testing.T) {
	snap := snapshot(t, func(db *gorm.DB) {
		for _, n := range []*models.Notification{
			{UserID: "user-carol", Title: "Welcome", CreatedAt: testutil.Date(2026, time.June, 11)},
			{UserID: "ten-a1", Title: "Rent due", Type: models.NotificationReminder, CreatedAt: testutil.Date(2026, time.October, 1)},
			{UserID: "mgr-a", Title: "Proof submitted", Type: models.NotificationPayment, IsRead: true},
		} {
			require.NoError(t, db.Create(n).Error)
		}
	})

	list, unread := NotificationsFor(snap, carol)
	require.Len(t, list, 2)
	assert.Equal(t, "Rent due", list[0].Title)
	assert.Equal(t, 2, unread)

	list, unread = NotificationsFor(snap, alice)
	require.Len(t, list, 1)
	assert.Zero(t, unread)
	assert.True(t, OwnsNotification(snap, alice, list[0].ID))
	assert.False(t, OwnsNotification(snap, bob, list[0].ID))
}

func TestOwnership(t *testing.T) {
	snap := snapshot(t)

	assert.True(t, OwnsProperty(snap, alice, "prop-a"))
	assert.False(t, OwnsProperty(snap, alice, "prop-b"))
	assert.False(t, OwnsProperty(snap, carol, "prop-a"))
	assert.True(t, OwnsProperty(snap, root, "anything"))

	assert.True(t, OwnsUnit(snap, bob, "unit-b1"))
	assert.False(t, OwnsUnit(snap, bob, "unit-a1"))
	assert.False(t, OwnsUnit(snap, bob, "missing"))

	assert.True(t, OwnsTenant(snap, alice, "ten-a1"))
	assert.False(t, OwnsTenant(snap, alice, "ten-b1"))
	assert.True(t, OwnsTenant(snap, carol, "ten-a1"))
	assert.False(t, OwnsTenant(snap, carol, "ten-b1"))
	assert.False(t, OwnsTenant(snap, alice, "missing"))
}

func TestUnassignedTenantsVisibleToManagers(t *testing.T) {
	snap := snapshot(t, func(db *gorm.DB) {
		require.NoError(t, db.Create(&models.Tenant{
			ID: "ten-new", Name: "Hank", Email: "hank@example.com", Status: models.TenantActive,
		}).Error)
	})

	assert.True(t, OwnsTenant(snap, alice, "ten-new"))
	assert.True(t, OwnsTenant(snap, bob, "ten-new"))
	assert.False(t, OwnsTenant(snap, carol, "ten-new"))
}

func TestResolveTenantPrefersOccupyingRecord(t *testing.T) {
	snap := snapshot(t, func(db *gorm.DB) {
		require.NoError(t, db.Create(&models.Tenant{
			ID: "ten-old", Name: "Carol", Email: " Carol@Example.com", Status: models.TenantInactive,
		}).Error)
		require.NoError(t, db.Create(&models.Tenant{
			ID: "ten-waiting", Name: "Carol", Email: "carol@example.com", Status: models.TenantActive,
		}).Error)
	})

	row, ok := ResolveTenant(snap, "carol@example.com")
	require.True(t, ok)
	assert.Equal(t, "ten-a1", row.ID)
	assert.Equal(t, GateActive, TenantView(snap, carol, today).Gate)

	only := snapshot(t, func(db *gorm.DB) {
		require.NoError(t, db.Model(&models.Tenant{}).Where("id = ?", "ten-a1").
			Updates(map[string]any{"status": models.TenantInactive, "unit_id": nil}).Error)
		require.NoError(t, db.Create(&models.Tenant{
			ID: "ten-waiting", Name: "Carol", Email: "carol@example.com", Status: models.TenantActive,
		}).Error)
	})
	row, ok = ResolveTenant(only, "carol@example.com")
	require.True(t, ok)
	assert.Equal(t, "ten-waiting", row.ID)
	assert.Equal(t, GatePendingAssignment, TenantView(only, carol, today).Gate)
}
