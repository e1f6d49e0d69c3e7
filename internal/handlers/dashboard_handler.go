package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/ledger"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/projection"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	store *store.Store
	now   func() time.Time
}

func NewDashboardHandler(st *store.Store, now func() time.Time) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{store: st, now: now}
}

func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	view, err := projection.Dashboard(h.store.Snapshot(), caller(c), h.now())
	if err != nil {
		return forbidden(c)
	}
	return c.JSON(view)
}

// Ledger returns every ledger entry the caller may see.
func (h *DashboardHandler) Ledger(c *fiber.Ctx) error {
	entries := projection.LedgerFor(h.store.Snapshot(), caller(c), h.now())
	if entries == nil {
		entries = []ledger.Entry{}
	}
	return c.JSON(entries)
}

func (h *DashboardHandler) TenantLedger(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	id := c.Params("id")
	row, ok := snap.Tenant(id)
	if !ok {
		return notFound(c, "Tenant")
	}
	if !projection.OwnsTenant(snap, caller(c), id) {
		return forbidden(c)
	}
	entries := ledger.ForTenant(snap, row, h.now())
	if entries == nil {
		entries = []ledger.Entry{}
	}
	return c.JSON(entries)
}
