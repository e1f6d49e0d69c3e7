// Package projection computes role-scoped views over a store snapshot. Every
// function is pure: it reads one snapshot and never retains or modifies it.
package projection

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/ledger"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/shopspring/decimal"
)

// ActivityLimit is the number of feed items a dashboard carries.
const ActivityLimit = 10

type Stats struct {
	Properties      int             `json:"properties"`
	Units           int             `json:"units"`
	OccupiedUnits   int             `json:"occupied_units"`
	VacantUnits     int             `json:"vacant_units"`
	ActiveTenants   int             `json:"active_tenants"`
	OccupancyRate   float64         `json:"occupancy_rate"` // percent
	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"`
	Collected       decimal.Decimal `json:"collected"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	PendingPayments int             `json:"pending_payments"`
}

// Activity is one item of the payment activity feed.
type Activity struct {
	PaymentID  string               `json:"payment_id"`
	TenantName string               `json:"tenant_name"`
	UnitName   string               `json:"unit_name"`
	Amount     decimal.Decimal      `json:"amount"`
	Period     string               `json:"period"`
	Status     models.PaymentStatus `json:"status"`
	At         time.Time            `json:"at"`
}

type ManagerDashboard struct {
	Role           session.Role        `json:"role"`
	Manager        *models.Manager     `json:"manager,omitempty"`
	Properties     []store.PropertyRow `json:"properties"`
	Units          []store.UnitRow     `json:"units"`
	Tenants        []store.TenantRow   `json:"tenants"`
	Payments       []store.PaymentRow  `json:"payments"`
	Stats          Stats               `json:"stats"`
	RecentActivity []Activity          `json:"recent_activity"`
	Ledger         []ledger.Entry      `json:"ledger"`
}

// ManagerView filters in three stages: the manager's properties, then units
// of those properties, then payments and tenants of those units. Each stage
// only sees the previous stage's ids.
func ManagerView(snap *store.Snapshot, id session.Identity, today time.Time) ManagerDashboard {
	d := ManagerDashboard{Role: session.RoleManager}
	if m, ok := snap.Manager(id.ID); ok {
		d.Manager = &m
	}

	propertyIDs := make(map[string]bool)
	for _, p := range snap.Properties {
		if p.ManagerID == id.ID {
			d.Properties = append(d.Properties, p)
			propertyIDs[p.ID] = true
		}
	}

	unitIDs := make(map[string]bool)
	for _, u := range snap.Units {
		if propertyIDs[u.PropertyID] {
			d.Units = append(d.Units, u)
			unitIDs[u.ID] = true
		}
	}

	for _, p := range snap.Payments {
		if unitIDs[p.UnitID] {
			d.Payments = append(d.Payments, p)
		}
	}
	for _, t := range snap.Tenants {
		if t.UnitID != nil && unitIDs[*t.UnitID] {
			d.Tenants = append(d.Tenants, t)
		}
	}

	d.Ledger = ledger.ForTenants(snap, d.Tenants, today)
	d.Stats = computeStats(d.Properties, d.Units, d.Tenants, d.Payments, d.Ledger)
	d.RecentActivity = RecentActivity(d.Payments, ActivityLimit)
	return d
}

// TenantGate is the outcome of resolving a tenant login to a dashboard.
type TenantGate string

const (
	GateNoAccount         TenantGate = "no_account"
	GateInactive          TenantGate = "inactive"
	GatePendingAssignment TenantGate = "pending_assignment"
	GateActive            TenantGate = "active"
)

type TenantDashboard struct {
	Role     session.Role       `json:"role"`
	Gate     TenantGate         `json:"gate"`
	Tenant   *store.TenantRow   `json:"tenant,omitempty"`
	Unit     *store.UnitRow     `json:"unit,omitempty"`
	Property *store.PropertyRow `json:"property,omitempty"`
	Payments []store.PaymentRow `json:"payments,omitempty"`
	Ledger   []ledger.Entry     `json:"ledger,omitempty"`
	Balance  decimal.Decimal    `json:"balance"`
}

// TenantView gates in a fixed order: no linked tenant record, inactive,
// awaiting a unit, and only then the active dashboard.
func TenantView(snap *store.Snapshot, id session.Identity, today time.Time) TenantDashboard {
	d := TenantDashboard{Role: session.RoleTenant, Gate: GateNoAccount}
	row, ok := ResolveTenant(snap, id.Email)
	if !ok {
		return d
	}
	d.Tenant = &row

	switch {
	case row.Status == models.TenantInactive:
		d.Gate = GateInactive
		return d
	case row.UnitID == nil || *row.UnitID == "":
		d.Gate = GatePendingAssignment
		return d
	}

	d.Gate = GateActive
	if u, ok := snap.Unit(*row.UnitID); ok {
		d.Unit = &u
		if p, ok := snap.Property(u.PropertyID); ok {
			d.Property = &p
		}
	}
	for _, p := range snap.Payments {
		if p.TenantID == row.ID {
			d.Payments = append(d.Payments, p)
		}
	}
	sort.SliceStable(d.Payments, func(i, j int) bool {
		return d.Payments[i].SubmittedAt.After(d.Payments[j].SubmittedAt)
	})
	d.Ledger = ledger.ForTenant(snap, row, today)
	_, _, d.Balance = ledger.Totals(d.Ledger)
	return d
}

// ResolveTenant finds the tenant record for a login email. Matching ignores
// case and surrounding whitespace. A returning resident may have several
// records; an occupying record wins over an active one, and an active one
// over an inactive one. Ties go to the earliest record.
func ResolveTenant(snap *store.Snapshot, email string) (store.TenantRow, bool) {
	email = strings.TrimSpace(email)
	if email == "" {
		return store.TenantRow{}, false
	}
	var best store.TenantRow
	rank := -1
	for _, t := range snap.Tenants {
		if !strings.EqualFold(strings.TrimSpace(t.Email), email) {
			continue
		}
		if r := tenantRank(t.Tenant); r > rank {
			best, rank = t, r
		}
	}
	return best, rank >= 0
}

func tenantRank(t models.Tenant) int {
	switch {
	case t.Occupies():
		return 2
	case t.Status == models.TenantActive:
		return 1
	}
	return 0
}

type ManagerSummary struct {
	models.Manager
	Properties    int     `json:"properties"`
	Units         int     `json:"units"`
	OccupiedUnits int     `json:"occupied_units"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

type AdminDashboard struct {
	Role           session.Role        `json:"role"`
	Stats          Stats               `json:"stats"`
	Managers       []ManagerSummary    `json:"managers"`
	Properties     []store.PropertyRow `json:"properties"`
	Units          []store.UnitRow     `json:"units"`
	Tenants        []store.TenantRow   `json:"tenants"`
	Payments       []store.PaymentRow  `json:"payments"`
	RecentActivity []Activity          `json:"recent_activity"`
}

// SuperAdminView is the unfiltered mirror plus system-wide aggregates.
func SuperAdminView(snap *store.Snapshot, today time.Time) AdminDashboard {
	ledgerAll := ledger.ForTenants(snap, snap.Tenants, today)
	d := AdminDashboard{
		Role:           session.RoleSuperAdmin,
		Stats:          computeStats(snap.Properties, snap.Units, snap.Tenants, snap.Payments, ledgerAll),
		Properties:     snap.Properties,
		Units:          snap.Units,
		Tenants:        snap.Tenants,
		Payments:       snap.Payments,
		RecentActivity: RecentActivity(snap.Payments, ActivityLimit),
	}

	byManager := make(map[string]*ManagerSummary, len(snap.Managers))
	d.Managers = make([]ManagerSummary, len(snap.Managers))
	for i, m := range snap.Managers {
		d.Managers[i] = ManagerSummary{Manager: m}
		byManager[m.ID] = &d.Managers[i]
	}
	owner := make(map[string]*ManagerSummary, len(snap.Properties))
	for _, p := range snap.Properties {
		if s, ok := byManager[p.ManagerID]; ok {
			s.Properties++
			owner[p.ID] = s
		}
	}
	for _, u := range snap.Units {
		if s, ok := owner[u.PropertyID]; ok {
			s.Units++
			if u.Status == models.UnitOccupied {
				s.OccupiedUnits++
			}
		}
	}
	for i := range d.Managers {
		d.Managers[i].OccupancyRate = percent(d.Managers[i].OccupiedUnits, d.Managers[i].Units)
	}
	return d
}

// Dashboard dispatches to the view for the identity's role.
func Dashboard(snap *store.Snapshot, id session.Identity, today time.Time) (any, error) {
	switch id.Role {
	case session.RoleSuperAdmin:
		return SuperAdminView(snap, today), nil
	case session.RoleManager:
		return ManagerView(snap, id, today), nil
	case session.RoleTenant:
		return TenantView(snap, id, today), nil
	}
	return nil, fmt.Errorf("no dashboard for role %q", id.Role)
}

// LedgerFor returns the ledger entries visible to id.
func LedgerFor(snap *store.Snapshot, id session.Identity, today time.Time) []ledger.Entry {
	switch id.Role {
	case session.RoleSuperAdmin:
		return ledger.ForTenants(snap, snap.Tenants, today)
	case session.RoleManager:
		return ManagerView(snap, id, today).Ledger
	case session.RoleTenant:
		if row, ok := ResolveTenant(snap, id.Email); ok {
			return ledger.ForTenant(snap, row, today)
		}
	}
	return nil
}

// RecentActivity returns up to limit payments, most recent event first. A
// reviewed payment's event time is its review time.
func RecentActivity(payments []store.PaymentRow, limit int) []Activity {
	feed := make([]Activity, 0, len(payments))
	for _, p := range payments {
		at := p.SubmittedAt
		if p.ReviewedAt != nil {
			at = *p.ReviewedAt
		}
		feed = append(feed, Activity{
			PaymentID:  p.ID,
			TenantName: p.TenantName,
			UnitName:   p.UnitName,
			Amount:     p.Amount,
			Period:     p.Period,
			Status:     p.Status,
			At:         at,
		})
	}
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].At.After(feed[j].At) })
	if limit >= 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	return feed
}

// NotificationsFor returns the identity's notifications, newest first, and
// the unread count. A notification may be addressed to the account id, the
// profile id or the tenant record.
func NotificationsFor(snap *store.Snapshot, id session.Identity) ([]models.Notification, int) {
	recipients := map[string]bool{}
	for _, r := range []string{id.UserID, id.ID} {
		if r != "" {
			recipients[r] = true
		}
	}
	if id.Role == session.RoleTenant {
		if row, ok := ResolveTenant(snap, id.Email); ok {
			recipients[row.ID] = true
		}
	}

	var out []models.Notification
	unread := 0
	for _, n := range snap.Notifications {
		if !recipients[n.UserID] {
			continue
		}
		out = append(out, n)
		if !n.IsRead {
			unread++
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, unread
}

func computeStats(props []store.PropertyRow, units []store.UnitRow, tenants []store.TenantRow, payments []store.PaymentRow, entries []ledger.Entry) Stats {
	s := Stats{
		Properties:     len(props),
		Units:          len(units),
		MonthlyRevenue: decimal.Zero,
		Collected:      decimal.Zero,
		Outstanding:    decimal.Zero,
	}
	for _, u := range units {
		if u.Status == models.UnitOccupied {
			s.OccupiedUnits++
			s.MonthlyRevenue = s.MonthlyRevenue.Add(u.MonthlyRent)
		}
	}
	s.VacantUnits = s.Units - s.OccupiedUnits
	s.OccupancyRate = percent(s.OccupiedUnits, s.Units)

	for _, t := range tenants {
		if t.Status == models.TenantActive {
			s.ActiveTenants++
		}
	}
	for _, p := range payments {
		switch p.Status {
		case models.PaymentPaid:
			s.Collected = s.Collected.Add(p.Amount)
		case models.PaymentPending:
			s.PendingPayments++
		}
	}
	for _, e := range entries {
		if e.Status != ledger.StatusPending && e.Balance.IsPositive() {
			s.Outstanding = s.Outstanding.Add(e.Balance)
		}
	}
	return s
}

// percent is n/d as a percentage with one decimal, or 0 when d is 0.
func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	v, _ := decimal.NewFromInt(int64(n)).Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(d))).Round(1).Float64()
	return v
}
