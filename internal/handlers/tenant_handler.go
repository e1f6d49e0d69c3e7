package handlers

import (
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/projection"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/gofiber/fiber/v2"
)

type TenantHandler struct {
	store *store.Store
}

func NewTenantHandler(st *store.Store) *TenantHandler {
	return &TenantHandler{store: st}
}

func (h *TenantHandler) List(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	out := []store.TenantRow{}
	for _, t := range snap.Tenants {
		if projection.OwnsTenant(snap, caller(c), t.ID) {
			out = append(out, t)
		}
	}
	return c.JSON(out)
}

func (h *TenantHandler) Get(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	t, ok := snap.Tenant(c.Params("id"))
	if !ok {
		return notFound(c, "Tenant")
	}
	if !projection.OwnsTenant(snap, caller(c), t.ID) {
		return forbidden(c)
	}
	return c.JSON(t)
}

func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var req dto.TenantRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	snap := h.store.Snapshot()
	if req.UnitID != nil && *req.UnitID != "" {
		if _, ok := snap.Unit(*req.UnitID); ok && !projection.OwnsUnit(snap, caller(c), *req.UnitID) {
			return forbidden(c)
		}
	}

	t := &models.Tenant{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		NationalID: req.NationalID,
		UnitID:     req.UnitID,
		Status:     req.Status,
		RentDueDay: req.RentDueDay,
	}
	if req.EntryDate != "" {
		d, err := models.ParseDate(req.EntryDate)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "entry_date: "+err.Error())
		}
		t.EntryDate = &d
	}
	if err := h.store.CreateTenant(c.UserContext(), t); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *TenantHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	snap := h.store.Snapshot()
	if !projection.OwnsTenant(snap, caller(c), id) {
		return forbidden(c)
	}
	var in store.TenantPatch
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if v, ok := in.UnitID.Value(); ok {
		if _, exists := snap.Unit(v); exists && !projection.OwnsUnit(snap, caller(c), v) {
			return forbidden(c)
		}
	}
	if err := h.store.UpdateTenant(c.UserContext(), id, in); err != nil {
		return respondError(c, err)
	}
	t, _ := h.store.Snapshot().Tenant(id)
	return c.JSON(t)
}

func (h *TenantHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if !projection.OwnsTenant(h.store.Snapshot(), caller(c), id) {
		return forbidden(c)
	}
	if err := h.store.DeleteTenant(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TenantHandler) Assign(c *fiber.Ctx) error {
	id := c.Params("id")
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	snap := h.store.Snapshot()
	who := caller(c)
	if _, ok := snap.Unit(req.UnitID); ok && !projection.OwnsUnit(snap, who, req.UnitID) {
		return forbidden(c)
	}
	if _, ok := snap.Tenant(id); ok && !projection.OwnsTenant(snap, who, id) {
		return forbidden(c)
	}
	if err := h.store.AssignTenant(c.UserContext(), id, req.UnitID); err != nil {
		return respondError(c, err)
	}
	t, _ := h.store.Snapshot().Tenant(id)
	return c.JSON(t)
}

func (h *TenantHandler) Vacate(c *fiber.Ctx) error {
	id := c.Params("id")
	if !projection.OwnsTenant(h.store.Snapshot(), caller(c), id) {
		return forbidden(c)
	}
	if err := h.store.VacateTenant(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	t, _ := h.store.Snapshot().Tenant(id)
	return c.JSON(t)
}
