package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/projection"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	store *store.Store
	now   func() time.Time
}

func NewPaymentHandler(st *store.Store, now func() time.Time) *PaymentHandler {
	if now == nil {
		now = time.Now
	}
	return &PaymentHandler{store: st, now: now}
}

// List returns the payments visible to the caller, newest submission first
// for tenants and in mirror order for staff.
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	id := caller(c)

	var out []store.PaymentRow
	switch id.Role {
	case session.RoleSuperAdmin:
		out = snap.Payments
	case session.RoleManager:
		out = projection.ManagerView(snap, id, h.now()).Payments
	case session.RoleTenant:
		out = projection.TenantView(snap, id, h.now()).Payments
	}
	if status := c.Query("status"); status != "" {
		filtered := make([]store.PaymentRow, 0, len(out))
		for _, p := range out {
			if string(p.Status) == status {
				filtered = append(filtered, p)
			}
		}
		out = filtered
	}
	if out == nil {
		out = []store.PaymentRow{}
	}
	return c.JSON(out)
}

// Submit records a payment proof. A tenant submits for their own active
// tenancy; staff may record a proof for a unit they manage.
func (h *PaymentHandler) Submit(c *fiber.Ctx) error {
	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	snap := h.store.Snapshot()
	id := caller(c)

	switch id.Role {
	case session.RoleTenant:
		view := projection.TenantView(snap, id, h.now())
		if view.Gate != projection.GateActive {
			return fail(c, fiber.StatusForbidden, "Payments can only be submitted for an active tenancy")
		}
		req.TenantID = view.Tenant.ID
		req.UnitID = *view.Tenant.UnitID
	default:
		if _, ok := snap.Unit(req.UnitID); ok && !projection.OwnsUnit(snap, id, req.UnitID) {
			return forbidden(c)
		}
	}

	p := &models.PaymentProof{
		TenantID:      req.TenantID,
		UnitID:        req.UnitID,
		Amount:        req.Amount,
		Period:        req.Period,
		PaymentMethod: req.PaymentMethod,
		ProofURL:      req.ProofURL,
	}
	if err := h.store.SubmitPayment(c.UserContext(), p); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *PaymentHandler) Review(c *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	id := c.Params("id")
	if err := h.store.ReviewPayment(c.UserContext(), caller(c), id, req.Status); err != nil {
		return respondError(c, err)
	}
	p, _ := h.store.Snapshot().Payment(id)
	return c.JSON(p)
}

func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	if err := h.store.DeletePayment(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
