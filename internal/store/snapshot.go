package store

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
)

// Unknown names a reference that does not resolve in the mirror.
const Unknown = "Unknown"

type PropertyRow struct {
	models.Property
	ManagerName string `json:"manager_name"`
	UnitCount   int    `json:"unit_count"`
}

type UnitRow struct {
	models.Unit
	PropertyName string `json:"property_name"`
}

type TenantRow struct {
	models.Tenant
	UnitName     string `json:"unit_name"`
	PropertyName string `json:"property_name"`
}

type PaymentRow struct {
	models.PaymentProof
	TenantName string `json:"tenant_name"`
	UnitName   string `json:"unit_name"`
}

// Snapshot is one complete, joined copy of the remote tables. A published
// Snapshot is never modified; readers may hold it as long as they like.
type Snapshot struct {
	Version       uint64                `json:"version"`
	FetchedAt     time.Time             `json:"fetched_at"`
	Properties    []PropertyRow         `json:"properties"`
	Units         []UnitRow             `json:"units"`
	Tenants       []TenantRow           `json:"tenants"`
	Managers      []models.Manager      `json:"managers"`
	Payments      []PaymentRow          `json:"payments"`
	Notifications []models.Notification `json:"notifications"`

	propertyIdx map[string]int
	unitIdx     map[string]int
	tenantIdx   map[string]int
	managerIdx  map[string]int
	paymentIdx  map[string]int
}

func (s *Snapshot) Property(id string) (PropertyRow, bool) {
	if i, ok := s.propertyIdx[id]; ok {
		return s.Properties[i], true
	}
	return PropertyRow{}, false
}

func (s *Snapshot) Unit(id string) (UnitRow, bool) {
	if i, ok := s.unitIdx[id]; ok {
		return s.Units[i], true
	}
	return UnitRow{}, false
}

func (s *Snapshot) Tenant(id string) (TenantRow, bool) {
	if i, ok := s.tenantIdx[id]; ok {
		return s.Tenants[i], true
	}
	return TenantRow{}, false
}

func (s *Snapshot) Manager(id string) (models.Manager, bool) {
	if i, ok := s.managerIdx[id]; ok {
		return s.Managers[i], true
	}
	return models.Manager{}, false
}

func (s *Snapshot) Payment(id string) (PaymentRow, bool) {
	if i, ok := s.paymentIdx[id]; ok {
		return s.Payments[i], true
	}
	return PaymentRow{}, false
}

// NotificationByID scans; notifications are not indexed.
func (s *Snapshot) NotificationByID(id string) (models.Notification, bool) {
	for _, n := range s.Notifications {
		if n.ID == id {
			return n, true
		}
	}
	return models.Notification{}, false
}

// emptySnapshot is served before the first successful fetch.
func emptySnapshot() *Snapshot {
	return buildSnapshot(rawTables{}, time.Time{})
}

type rawTables struct {
	properties    []models.Property
	units         []models.Unit
	tenants       []models.Tenant
	managers      []models.Manager
	payments      []models.PaymentProof
	notifications []models.Notification
}

// buildSnapshot joins the raw tables into a fresh Snapshot. Unit occupancy is
// recomputed here from the tenant set, whatever the stored status says.
func buildSnapshot(raw rawTables, fetchedAt time.Time) *Snapshot {
	s := &Snapshot{
		FetchedAt:     fetchedAt,
		Managers:      make([]models.Manager, len(raw.managers)),
		Notifications: make([]models.Notification, len(raw.notifications)),
		propertyIdx:   make(map[string]int, len(raw.properties)),
		unitIdx:       make(map[string]int, len(raw.units)),
		tenantIdx:     make(map[string]int, len(raw.tenants)),
		managerIdx:    make(map[string]int, len(raw.managers)),
		paymentIdx:    make(map[string]int, len(raw.payments)),
	}
	copy(s.Managers, raw.managers)
	copy(s.Notifications, raw.notifications)
	for i, m := range s.Managers {
		s.managerIdx[m.ID] = i
	}

	occupied := make(map[string]bool, len(raw.tenants))
	for i := range raw.tenants {
		if raw.tenants[i].Occupies() {
			occupied[*raw.tenants[i].UnitID] = true
		}
	}

	unitCount := make(map[string]int, len(raw.properties))
	for _, u := range raw.units {
		unitCount[u.PropertyID]++
	}

	s.Properties = make([]PropertyRow, len(raw.properties))
	for i, p := range raw.properties {
		row := PropertyRow{Property: p, ManagerName: Unknown, UnitCount: unitCount[p.ID]}
		if m, ok := s.Manager(p.ManagerID); ok {
			row.ManagerName = m.Name
		}
		s.Properties[i] = row
		s.propertyIdx[p.ID] = i
	}

	s.Units = make([]UnitRow, len(raw.units))
	for i, u := range raw.units {
		u.Status = models.UnitVacant
		if occupied[u.ID] {
			u.Status = models.UnitOccupied
		}
		row := UnitRow{Unit: u, PropertyName: Unknown}
		if p, ok := s.Property(u.PropertyID); ok {
			row.PropertyName = p.Name
		}
		s.Units[i] = row
		s.unitIdx[u.ID] = i
	}

	s.Tenants = make([]TenantRow, len(raw.tenants))
	for i, t := range raw.tenants {
		row := TenantRow{Tenant: t}
		if t.UnitID != nil && *t.UnitID != "" {
			row.UnitName, row.PropertyName = Unknown, Unknown
			if u, ok := s.Unit(*t.UnitID); ok {
				row.UnitName = u.Name
				row.PropertyName = u.PropertyName
			}
		}
		s.Tenants[i] = row
		s.tenantIdx[t.ID] = i
	}

	s.Payments = make([]PaymentRow, len(raw.payments))
	for i, p := range raw.payments {
		row := PaymentRow{PaymentProof: p, TenantName: Unknown, UnitName: Unknown}
		if t, ok := s.Tenant(p.TenantID); ok {
			row.TenantName = t.Name
		}
		if u, ok := s.Unit(p.UnitID); ok {
			row.UnitName = u.Name
		}
		s.Payments[i] = row
		s.paymentIdx[p.ID] = i
	}

	return s
}
