package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/remote"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors to a status and a message the user can act on.
func respondError(c *fiber.Ctx, err error) error {
	var verr *store.ValidationError
	var serr *store.Error

	switch {
	case errors.As(err, &verr):
		return fail(c, fiber.StatusBadRequest, verr.Error())
	case errors.Is(err, store.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "This action is not available for your account")
	case errors.As(err, &serr):
		if !serr.Applied && errors.Is(serr, remote.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, serr.Notice())
		}
		capture(c, err)
		return fail(c, fiber.StatusBadGateway, serr.Notice())
	case errors.Is(err, remote.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Not found")
	}

	capture(c, err)
	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badBody(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "Invalid request body")
}

func forbidden(c *fiber.Ctx) error {
	return respondError(c, store.ErrForbidden)
}

func notFound(c *fiber.Ctx, what string) error {
	return fail(c, fiber.StatusNotFound, what+" not found")
}

func capture(c *fiber.Ctx, err error) {
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
}

// caller returns the identity set by middleware.Identity. Without one the
// zero Identity has no role and passes no ownership check.
func caller(c *fiber.Ctx) session.Identity {
	id, _ := session.Get(c)
	return id
}
