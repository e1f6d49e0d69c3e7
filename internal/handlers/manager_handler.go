package handlers

import (
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/gofiber/fiber/v2"
)

// ManagerHandler is mounted behind the super admin role.
type ManagerHandler struct {
	store *store.Store
}

func NewManagerHandler(st *store.Store) *ManagerHandler {
	return &ManagerHandler{store: st}
}

func (h *ManagerHandler) List(c *fiber.Ctx) error {
	managers := h.store.Snapshot().Managers
	if managers == nil {
		managers = []models.Manager{}
	}
	return c.JSON(managers)
}

func (h *ManagerHandler) Get(c *fiber.Ctx) error {
	m, ok := h.store.Snapshot().Manager(c.Params("id"))
	if !ok {
		return notFound(c, "Manager")
	}
	return c.JSON(m)
}

func (h *ManagerHandler) Create(c *fiber.Ctx) error {
	var req dto.ManagerRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	m := &models.Manager{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		City:   req.City,
		Status: req.Status,
	}
	if err := h.store.CreateManager(c.UserContext(), m); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *ManagerHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in store.ManagerPatch
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.store.UpdateManager(c.UserContext(), id, in); err != nil {
		return respondError(c, err)
	}
	m, _ := h.store.Snapshot().Manager(id)
	return c.JSON(m)
}

func (h *ManagerHandler) Delete(c *fiber.Ctx) error {
	if err := h.store.DeleteManager(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
