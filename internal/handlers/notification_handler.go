package handlers

import (
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/projection"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	store *store.Store
}

func NewNotificationHandler(st *store.Store) *NotificationHandler {
	return &NotificationHandler{store: st}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	list, unread := projection.NotificationsFor(h.store.Snapshot(), caller(c))
	if list == nil {
		list = []models.Notification{}
	}
	return c.JSON(dto.NotificationsResponse{Notifications: list, Unread: unread})
}

// Create sends a notification to a user. Staff only.
func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	var req dto.NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	n := &models.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	}
	if err := h.store.CreateNotification(c.UserContext(), n); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}

// MarkRead sets the read flag; an empty body marks the notification read.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id := c.Params("id")
	if !projection.OwnsNotification(h.store.Snapshot(), caller(c), id) {
		return notFound(c, "Notification")
	}
	read := true
	if len(c.Body()) > 0 {
		var req dto.ReadRequest
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
		if req.Read != nil {
			read = *req.Read
		}
	}
	if err := h.store.MarkNotificationRead(c.UserContext(), id, read); err != nil {
		return respondError(c, err)
	}
	n, _ := h.store.Snapshot().NotificationByID(id)
	return c.JSON(n)
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if !projection.OwnsNotification(h.store.Snapshot(), caller(c), id) {
		return notFound(c, "Notification")
	}
	if err := h.store.DeleteNotification(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
