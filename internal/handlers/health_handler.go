package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yagontorron/needitv1/internal/dto"
)

// Pinger reports database reachability.
type Pinger func() error

type HealthHandler struct {
	ping      Pinger
	needCount func() int
}

// NewHealthHandler takes a nil ping when no database is configured.
func NewHealthHandler(ping Pinger, needCount func() int) *HealthHandler {
	return &HealthHandler{ping: ping, needCount: needCount}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "disabled"
	if h.ping != nil {
		dbStatus = "ok"
		if err := h.ping(); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Needs:     h.needCount(),
	})
}
