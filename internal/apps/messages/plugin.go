package messages

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yagontorron/needitv1/internal/services"
)

type Plugin struct {
	handler *MessageHandler
}

func New(messaging *services.MessagingService, needs *services.NeedsService, profiles Profiles) *Plugin {
	return &Plugin{handler: NewMessageHandler(messaging, needs, profiles)}
}

func (p *Plugin) ID() string { return "messages" }

// RegisterRoutes mounts protected routes only; every conversation is
// member-scoped.
func (p *Plugin) RegisterRoutes(_, protected fiber.Router) {
	h := p.handler

	protected.Get("/conversations", h.List)
	protected.Get("/conversations/unread", h.UnreadCount)
	protected.Get("/conversations/:id", h.Get)
	protected.Get("/conversations/:id/messages", h.Messages)
	protected.Post("/conversations/:id/messages", h.Send)
	protected.Post("/conversations/:id/read", h.MarkRead)
}
