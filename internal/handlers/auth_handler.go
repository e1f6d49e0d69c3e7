package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/services"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	store       *store.Store
}

func NewAuthHandler(authService *services.AuthService, st *store.Store) *AuthHandler {
	return &AuthHandler{authService: authService, store: st}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return fail(c, fiber.StatusUnauthorized, err.Error())
		}
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return fail(c, fiber.StatusUnauthorized, err.Error())
		}
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if err := h.authService.Logout(&req); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to logout")
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me returns the caller's identity as the projections see it.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(caller(c))
}

// CreateAccount lets a super admin open logins for managers and tenants.
// A manager account must point at an existing Manager row.
func (h *AuthHandler) CreateAccount(c *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.Role == session.RoleManager {
		if _, ok := h.store.Snapshot().Manager(req.ProfileID); !ok {
			return fail(c, fiber.StatusBadRequest, "profile_id must reference an existing manager")
		}
	}

	user, err := h.authService.CreateAccount(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return fail(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, services.ErrInvalidAccount):
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}
