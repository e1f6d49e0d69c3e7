package projection

import (
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
)

// OwnsProperty reports whether id may manage the property.
func OwnsProperty(snap *store.Snapshot, id session.Identity, propertyID string) bool {
	switch id.Role {
	case session.RoleSuperAdmin:
		return true
	case session.RoleManager:
		p, ok := snap.Property(propertyID)
		return ok && p.ManagerID == id.ID
	}
	return false
}

func OwnsUnit(snap *store.Snapshot, id session.Identity, unitID string) bool {
	if id.Role == session.RoleSuperAdmin {
		return true
	}
	u, ok := snap.Unit(unitID)
	return ok && OwnsProperty(snap, id, u.PropertyID)
}

// OwnsTenant reports whether id may see the tenant: staff through the unit,
// a tenant only through their own record. Tenants without a unit are in the
// shared intake pool and visible to every manager so they can be assigned.
func OwnsTenant(snap *store.Snapshot, id session.Identity, tenantID string) bool {
	switch id.Role {
	case session.RoleSuperAdmin:
		return true
	case session.RoleManager:
		t, ok := snap.Tenant(tenantID)
		if !ok {
			return false
		}
		if t.UnitID == nil || *t.UnitID == "" {
			return true
		}
		return OwnsUnit(snap, id, *t.UnitID)
	case session.RoleTenant:
		t, ok := ResolveTenant(snap, id.Email)
		return ok && t.ID == tenantID
	}
	return false
}

// OwnsNotification reports whether the notification is addressed to id.
func OwnsNotification(snap *store.Snapshot, id session.Identity, notificationID string) bool {
	list, _ := NotificationsFor(snap, id)
	for _, n := range list {
		if n.ID == notificationID {
			return true
		}
	}
	return false
}
