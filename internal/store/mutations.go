package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/patch"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/remote"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PropertyPatch is a partial update of a property.
type PropertyPatch struct {
	Name      patch.Field[string]   `json:"name"`
	Address   patch.Field[string]   `json:"address"`
	City      patch.Field[string]   `json:"city"`
	State     patch.Field[string]   `json:"state"`
	Zip       patch.Field[string]   `json:"zip"`
	ManagerID patch.Field[string]   `json:"manager_id"`
	Amenities patch.Field[[]string] `json:"amenities"`
}

type UnitPatch struct {
	Name        patch.Field[string]          `json:"name"`
	PropertyID  patch.Field[string]          `json:"property_id"`
	MonthlyRent patch.Field[decimal.Decimal] `json:"monthly_rent"`
	Bedrooms    patch.Field[int]             `json:"bedrooms"`
	Bathrooms   patch.Field[int]             `json:"bathrooms"`
	SizeSqm     patch.Field[float64]         `json:"size_sqm"`
	FloorNumber patch.Field[int]             `json:"floor_number"`
}

// TenantPatch is a partial update of a tenant. EntryDate uses YYYY-MM-DD.
type TenantPatch struct {
	Name       patch.Field[string]              `json:"name"`
	Email      patch.Field[string]              `json:"email"`
	Phone      patch.Field[string]              `json:"phone"`
	NationalID patch.Field[string]              `json:"national_id"`
	UnitID     patch.Field[string]              `json:"unit_id"`
	Status     patch.Field[models.TenantStatus] `json:"status"`
	EntryDate  patch.Field[string]              `json:"entry_date"`
	RentDueDay patch.Field[int]                 `json:"rent_due_day"`
}

type ManagerPatch struct {
	Name   patch.Field[string]               `json:"name"`
	Email  patch.Field[string]               `json:"email"`
	Phone  patch.Field[string]               `json:"phone"`
	City   patch.Field[string]               `json:"city"`
	Status patch.Field[models.ManagerStatus] `json:"status"`
}

// Properties

func (s *Store) CreateProperty(ctx context.Context, p *models.Property) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid("name", "is required")
	}
	if _, ok := s.Snapshot().Manager(p.ManagerID); !ok {
		return invalid("manager_id", "manager %q does not exist", p.ManagerID)
	}
	return s.Mutate(ctx, Mutation{Table: remote.TableProperties, Op: OpInsert, ID: p.ID, Record: p})
}

func (s *Store) UpdateProperty(ctx context.Context, id string, in PropertyPatch) error {
	c := patch.NewChanges()
	patch.Required(c, "name", in.Name)
	patch.Required(c, "address", in.Address)
	patch.Required(c, "city", in.City)
	patch.Required(c, "state", in.State)
	patch.Required(c, "zip", in.Zip)
	patch.Required(c, "manager_id", in.ManagerID)
	if in.Amenities.IsNull() {
		c.Put("amenities", nil)
	} else if v, ok := in.Amenities.Value(); ok {
		c.Put("amenities", datatypes.JSONSlice[string](v))
	}
	if v, ok := in.Name.Value(); ok && strings.TrimSpace(v) == "" {
		return invalid("name", "is required")
	}
	if v, ok := in.ManagerID.Value(); ok {
		if _, found := s.Snapshot().Manager(v); !found {
			return invalid("manager_id", "manager %q does not exist", v)
		}
	}
	return s.update(ctx, remote.TableProperties, id, c)
}

// DeleteProperty refuses while units still belong to the property.
func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	if p, ok := s.Snapshot().Property(id); ok && p.UnitCount > 0 {
		return invalid("", "property %q still has %d units", p.Name, p.UnitCount)
	}
	return s.Mutate(ctx, Mutation{Table: remote.TableProperties, Op: OpDelete, ID: id})
}

// Units

// CreateUnit inserts a unit. New units start vacant; occupancy follows tenants.
func (s *Store) CreateUnit(ctx context.Context, u *models.Unit) error {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return invalid("name", "is required")
	}
	if _, ok := s.Snapshot().Property(u.PropertyID); !ok {
		return invalid("property_id", "property %q does not exist", u.PropertyID)
	}
	if u.MonthlyRent.IsNegative() {
		return invalid("monthly_rent", "must not be negative")
	}
	u.Status = models.UnitVacant
	return s.Mutate(ctx, Mutation{Table: remote.TableUnits, Op: OpInsert, ID: u.ID, Record: u})
}

func (s *Store) UpdateUnit(ctx context.Context, id string, in UnitPatch) error {
	c := patch.NewChanges()
	patch.Required(c, "name", in.Name)
	patch.Required(c, "property_id", in.PropertyID)
	patch.Required(c, "monthly_rent", in.MonthlyRent)
	patch.Optional(c, "bedrooms", in.Bedrooms)
	patch.Optional(c, "bathrooms", in.Bathrooms)
	patch.Optional(c, "size_sqm", in.SizeSqm)
	patch.Optional(c, "floor_number", in.FloorNumber)
	if v, ok := in.Name.Value(); ok && strings.TrimSpace(v) == "" {
		return invalid("name", "is required")
	}
	if v, ok := in.PropertyID.Value(); ok {
		if _, found := s.Snapshot().Property(v); !found {
			return invalid("property_id", "property %q does not exist", v)
		}
	}
	if v, ok := in.MonthlyRent.Value(); ok && v.IsNegative() {
		return invalid("monthly_rent", "must not be negative")
	}
	return s.update(ctx, remote.TableUnits, id, c)
}

// DeleteUnit refuses while an active tenant occupies the unit.
func (s *Store) DeleteUnit(ctx context.Context, id string) error {
	if u, ok := s.Snapshot().Unit(id); ok && u.Status == models.UnitOccupied {
		return invalid("", "unit %q is occupied; vacate its tenant first", u.Name)
	}
	return s.Mutate(ctx, Mutation{Table: remote.TableUnits, Op: OpDelete, ID: id})
}

// Tenants

func (s *Store) CreateTenant(ctx context.Context, t *models.Tenant) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Email = strings.TrimSpace(t.Email)
	if t.Name == "" {
		return invalid("name", "is required")
	}
	if t.RentDueDay == 0 {
		t.RentDueDay = 1
	}
	if t.RentDueDay < 1 || t.RentDueDay > 31 {
		return invalid("rent_due_day", "must be between 1 and 31")
	}
	if t.Status == "" {
		t.Status = models.TenantActive
	}
	if !validTenantStatus(t.Status) {
		return invalid("status", "unknown status %q", t.Status)
	}
	if t.UnitID != nil && *t.UnitID == "" {
		t.UnitID = nil
	}
	if t.UnitID != nil {
		if err := s.checkUnitFree(*t.UnitID, ""); err != nil {
			return err
		}
	}
	return s.Mutate(ctx, Mutation{Table: remote.TableTenants, Op: OpInsert, ID: t.ID, Record: t})
}

func (s *Store) UpdateTenant(ctx context.Context, id string, in TenantPatch) error {
	c := patch.NewChanges()
	patch.Required(c, "name", in.Name)
	patch.Required(c, "email", in.Email)
	patch.Required(c, "phone", in.Phone)
	patch.Optional(c, "national_id", in.NationalID)
	patch.Optional(c, "unit_id", in.UnitID)
	patch.Required(c, "status", in.Status)
	patch.Required(c, "rent_due_day", in.RentDueDay)

	if v, ok := in.Name.Value(); ok && strings.TrimSpace(v) == "" {
		return invalid("name", "is required")
	}
	if v, ok := in.Status.Value(); ok && !validTenantStatus(v) {
		return invalid("status", "unknown status %q", v)
	}
	if v, ok := in.RentDueDay.Value(); ok && (v < 1 || v > 31) {
		return invalid("rent_due_day", "must be between 1 and 31")
	}
	if in.UnitID.Present() || in.Status.Present() {
		if err := s.checkOccupancy(id, in); err != nil {
			return err
		}
	}
	if in.EntryDate.IsNull() {
		c.Put("entry_date", nil)
	} else if v, ok := in.EntryDate.Value(); ok {
		d, err := models.ParseDate(v)
		if err != nil {
			return invalid("entry_date", "%v", err)
		}
		c.Put("entry_date", d)
	}
	return s.update(ctx, remote.TableTenants, id, c)
}

func (s *Store) DeleteTenant(ctx context.Context, id string) error {
	return s.Mutate(ctx, Mutation{Table: remote.TableTenants, Op: OpDelete, ID: id})
}

// AssignTenant moves a tenant into a vacant unit and activates them.
func (s *Store) AssignTenant(ctx context.Context, tenantID, unitID string) error {
	if _, ok := s.Snapshot().Tenant(tenantID); !ok {
		return fmt.Errorf("tenant %s: %w", tenantID, remote.ErrNotFound)
	}
	if err := s.checkUnitFree(unitID, tenantID); err != nil {
		return err
	}
	return s.Mutate(ctx, Mutation{
		Table:  remote.TableTenants,
		Op:     OpUpdate,
		ID:     tenantID,
		Fields: map[string]any{"unit_id": unitID, "status": models.TenantActive},
	})
}

// VacateTenant clears the unit and deactivates the tenant in one write.
func (s *Store) VacateTenant(ctx context.Context, tenantID string) error {
	return s.Mutate(ctx, Mutation{
		Table:  remote.TableTenants,
		Op:     OpUpdate,
		ID:     tenantID,
		Fields: map[string]any{"unit_id": nil, "status": models.TenantInactive},
	})
}

// checkUnitFree fails unless unitID exists and no active tenant other than
// except occupies it.
func (s *Store) checkUnitFree(unitID, except string) error {
	snap := s.Snapshot()
	if _, ok := snap.Unit(unitID); !ok {
		return invalid("unit_id", "unit %q does not exist", unitID)
	}
	for _, t := range snap.Tenants {
		if t.ID != except && t.Occupies() && *t.UnitID == unitID {
			return invalid("unit_id", "unit is already occupied by %s", t.Name)
		}
	}
	return nil
}

// checkOccupancy applies the one-occupant rule to the tenant as it will be
// after the patch: unit and status come from the patch when present and from
// the mirror otherwise.
func (s *Store) checkOccupancy(id string, in TenantPatch) error {
	var unitID string
	var status models.TenantStatus
	if cur, ok := s.Snapshot().Tenant(id); ok {
		status = cur.Status
		if cur.UnitID != nil {
			unitID = *cur.UnitID
		}
	}
	if in.UnitID.IsNull() {
		unitID = ""
	} else if v, ok := in.UnitID.Value(); ok {
		if _, found := s.Snapshot().Unit(v); !found {
			return invalid("unit_id", "unit %q does not exist", v)
		}
		unitID = v
	}
	if v, ok := in.Status.Value(); ok {
		status = v
	}
	if unitID == "" || status != models.TenantActive {
		return nil
	}
	return s.checkUnitFree(unitID, id)
}

func validTenantStatus(st models.TenantStatus) bool {
	return st == models.TenantActive || st == models.TenantInactive
}

// Managers

func (s *Store) CreateManager(ctx context.Context, m *models.Manager) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return invalid("name", "is required")
	}
	if m.Status == "" {
		m.Status = models.ManagerActive
	}
	if !validManagerStatus(m.Status) {
		return invalid("status", "unknown status %q", m.Status)
	}
	return s.Mutate(ctx, Mutation{Table: remote.TableManagers, Op: OpInsert, ID: m.ID, Record: m})
}

func (s *Store) UpdateManager(ctx context.Context, id string, in ManagerPatch) error {
	c := patch.NewChanges()
	patch.Required(c, "name", in.Name)
	patch.Required(c, "email", in.Email)
	patch.Required(c, "phone", in.Phone)
	patch.Required(c, "city", in.City)
	patch.Required(c, "status", in.Status)
	if v, ok := in.Name.Value(); ok && strings.TrimSpace(v) == "" {
		return invalid("name", "is required")
	}
	if v, ok := in.Status.Value(); ok && !validManagerStatus(v) {
		return invalid("status", "unknown status %q", v)
	}
	return s.update(ctx, remote.TableManagers, id, c)
}

// DeleteManager refuses while the manager still owns properties.
func (s *Store) DeleteManager(ctx context.Context, id string) error {
	for _, p := range s.Snapshot().Properties {
		if p.ManagerID == id {
			return invalid("", "manager still owns property %q", p.Name)
		}
	}
	return s.Mutate(ctx, Mutation{Table: remote.TableManagers, Op: OpDelete, ID: id})
}

func validManagerStatus(st models.ManagerStatus) bool {
	return st == models.ManagerActive || st == models.ManagerInactive
}

// Payments

// SubmitPayment records a payment proof. Proofs always start pending.
func (s *Store) SubmitPayment(ctx context.Context, p *models.PaymentProof) error {
	if !p.Amount.IsPositive() {
		return invalid("amount", "must be greater than zero")
	}
	if strings.TrimSpace(p.Period) == "" {
		return invalid("period", "is required")
	}
	month, err := models.ParsePeriod(p.Period)
	if err != nil {
		return invalid("period", "%v", err)
	}
	p.Period = month.Format(models.PeriodLayout)
	snap := s.Snapshot()
	tenant, ok := snap.Tenant(p.TenantID)
	if !ok {
		return invalid("tenant_id", "tenant %q does not exist", p.TenantID)
	}
	if _, ok := snap.Unit(p.UnitID); !ok {
		return invalid("unit_id", "unit %q does not exist", p.UnitID)
	}
	if tenant.UnitID == nil || *tenant.UnitID != p.UnitID {
		return invalid("unit_id", "tenant %s does not occupy this unit", tenant.Name)
	}
	p.Status = models.PaymentPending
	p.ReviewedAt = nil
	p.ReviewedBy = nil
	if p.SubmittedAt.IsZero() {
		p.SubmittedAt = s.now().UTC()
	}
	return s.Mutate(ctx, Mutation{Table: remote.TablePayments, Op: OpInsert, ID: p.ID, Record: p})
}

// ReviewPayment moves a pending proof to paid or rejected. Managers may only
// review proofs for units in their own properties.
func (s *Store) ReviewPayment(ctx context.Context, reviewer session.Identity, id string, status models.PaymentStatus) error {
	if !reviewer.IsStaff() {
		return ErrForbidden
	}
	if status != models.PaymentPaid && status != models.PaymentRejected {
		return invalid("status", "must be %q or %q", models.PaymentPaid, models.PaymentRejected)
	}
	snap := s.Snapshot()
	p, ok := snap.Payment(id)
	if !ok {
		return fmt.Errorf("payment %s: %w", id, remote.ErrNotFound)
	}
	if reviewer.Role == session.RoleManager && !managerOwnsUnit(snap, reviewer.ID, p.UnitID) {
		return ErrForbidden
	}
	if p.Status != models.PaymentPending {
		return invalid("status", "payment was already reviewed (%s)", p.Status)
	}
	return s.Mutate(ctx, Mutation{
		Table: remote.TablePayments,
		Op:    OpUpdate,
		ID:    id,
		Fields: map[string]any{
			"status":      status,
			"reviewed_at": s.now().UTC(),
			"reviewed_by": reviewer.ID,
		},
	})
}

func (s *Store) DeletePayment(ctx context.Context, id string) error {
	return s.Mutate(ctx, Mutation{Table: remote.TablePayments, Op: OpDelete, ID: id})
}

func managerOwnsUnit(snap *Snapshot, managerID, unitID string) bool {
	u, ok := snap.Unit(unitID)
	if !ok {
		return false
	}
	p, ok := snap.Property(u.PropertyID)
	return ok && p.ManagerID == managerID
}

// Notifications

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.UserID == "" {
		return invalid("user_id", "is required")
	}
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return invalid("title", "is required")
	}
	switch n.Type {
	case "":
		n.Type = models.NotificationInfo
	case models.NotificationReminder, models.NotificationAlert, models.NotificationInfo, models.NotificationPayment:
	default:
		return invalid("type", "unknown type %q", n.Type)
	}
	return s.Mutate(ctx, Mutation{Table: remote.TableNotifications, Op: OpInsert, ID: n.ID, Record: n})
}

// MarkNotificationRead flips the only mutable field of a notification.
func (s *Store) MarkNotificationRead(ctx context.Context, id string, read bool) error {
	return s.Mutate(ctx, Mutation{
		Table:  remote.TableNotifications,
		Op:     OpUpdate,
		ID:     id,
		Fields: map[string]any{"is_read": read},
	})
}

func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	return s.Mutate(ctx, Mutation{Table: remote.TableNotifications, Op: OpDelete, ID: id})
}

// update sends the collected changes, rejecting explicit nulls on required
// columns and empty patches before any remote call.
func (s *Store) update(ctx context.Context, table remote.Table, id string, c *patch.Changes) error {
	fields, err := c.Map()
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if len(fields) == 0 {
		return invalid("", "no fields to update")
	}
	return s.Mutate(ctx, Mutation{Table: table, Op: OpUpdate, ID: id, Fields: fields})
}
