package handlers

import (
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/projection"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/gofiber/fiber/v2"
)

// PropertyHandler serves properties and their units to staff.
type PropertyHandler struct {
	store *store.Store
}

func NewPropertyHandler(st *store.Store) *PropertyHandler {
	return &PropertyHandler{store: st}
}

func (h *PropertyHandler) ListProperties(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	out := []store.PropertyRow{}
	for _, p := range snap.Properties {
		if projection.OwnsProperty(snap, caller(c), p.ID) {
			out = append(out, p)
		}
	}
	return c.JSON(out)
}

func (h *PropertyHandler) GetProperty(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	p, ok := snap.Property(c.Params("id"))
	if !ok {
		return notFound(c, "Property")
	}
	if !projection.OwnsProperty(snap, caller(c), p.ID) {
		return forbidden(c)
	}
	return c.JSON(p)
}

// CreateProperty inserts a property. Managers always create for themselves.
func (h *PropertyHandler) CreateProperty(c *fiber.Ctx) error {
	var req dto.PropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	id := caller(c)
	if id.Role == session.RoleManager {
		req.ManagerID = id.ID
	}

	p := &models.Property{
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		ManagerID: req.ManagerID,
		Amenities: req.Amenities,
	}
	if err := h.store.CreateProperty(c.UserContext(), p); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *PropertyHandler) UpdateProperty(c *fiber.Ctx) error {
	id := c.Params("id")
	who := caller(c)
	if !projection.OwnsProperty(h.store.Snapshot(), who, id) {
		return forbidden(c)
	}
	var in store.PropertyPatch
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ManagerID.Present() && who.Role != session.RoleSuperAdmin {
		return forbidden(c)
	}
	if err := h.store.UpdateProperty(c.UserContext(), id, in); err != nil {
		return respondError(c, err)
	}
	p, _ := h.store.Snapshot().Property(id)
	return c.JSON(p)
}

func (h *PropertyHandler) DeleteProperty(c *fiber.Ctx) error {
	id := c.Params("id")
	if !projection.OwnsProperty(h.store.Snapshot(), caller(c), id) {
		return forbidden(c)
	}
	if err := h.store.DeleteProperty(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PropertyHandler) ListUnits(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	propertyID := c.Query("property_id")
	out := []store.UnitRow{}
	for _, u := range snap.Units {
		if propertyID != "" && u.PropertyID != propertyID {
			continue
		}
		if projection.OwnsUnit(snap, caller(c), u.ID) {
			out = append(out, u)
		}
	}
	return c.JSON(out)
}

func (h *PropertyHandler) GetUnit(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	u, ok := snap.Unit(c.Params("id"))
	if !ok {
		return notFound(c, "Unit")
	}
	if !projection.OwnsUnit(snap, caller(c), u.ID) {
		return forbidden(c)
	}
	return c.JSON(u)
}

func (h *PropertyHandler) CreateUnit(c *fiber.Ctx) error {
	var req dto.UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	snap := h.store.Snapshot()
	if _, ok := snap.Property(req.PropertyID); ok && !projection.OwnsProperty(snap, caller(c), req.PropertyID) {
		return forbidden(c)
	}

	u := &models.Unit{
		Name:        req.Name,
		PropertyID:  req.PropertyID,
		MonthlyRent: req.MonthlyRent,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		SizeSqm:     req.SizeSqm,
		FloorNumber: req.FloorNumber,
	}
	if err := h.store.CreateUnit(c.UserContext(), u); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *PropertyHandler) UpdateUnit(c *fiber.Ctx) error {
	id := c.Params("id")
	snap := h.store.Snapshot()
	if !projection.OwnsUnit(snap, caller(c), id) {
		return forbidden(c)
	}
	var in store.UnitPatch
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if v, ok := in.PropertyID.Value(); ok {
		if _, exists := snap.Property(v); exists && !projection.OwnsProperty(snap, caller(c), v) {
			return forbidden(c)
		}
	}
	if err := h.store.UpdateUnit(c.UserContext(), id, in); err != nil {
		return respondError(c, err)
	}
	u, _ := h.store.Snapshot().Unit(id)
	return c.JSON(u)
}

func (h *PropertyHandler) DeleteUnit(c *fiber.Ctx) error {
	id := c.Params("id")
	if !projection.OwnsUnit(h.store.Snapshot(), caller(c), id) {
		return forbidden(c)
	}
	if err := h.store.DeleteUnit(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
