package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	store *store.Store
}

func NewHealthHandler(db *gorm.DB, st *store.Store) *HealthHandler {
	return &HealthHandler{db: db, store: st}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	snap := h.store.Snapshot()
	resp := dto.HealthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		DB:            dbStatus,
		MirrorVersion: snap.Version,
	}
	if !snap.FetchedAt.IsZero() {
		resp.MirrorAge = time.Since(snap.FetchedAt).Round(time.Second).String()
	}
	return c.JSON(resp)
}

// Sync reports the mirror version so clients can poll for "mirror updated".
func (h *HealthHandler) Sync(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	return c.JSON(dto.SyncResponse{Version: snap.Version, FetchedAt: snap.FetchedAt})
}
