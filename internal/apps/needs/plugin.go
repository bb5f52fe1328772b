package needs

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yagontorron/needitv1/internal/config"
	"github.com/yagontorron/needitv1/internal/middleware"
	"github.com/yagontorron/needitv1/internal/services"
)

type Plugin struct {
	cfg     *config.Config
	handler *NeedHandler
}

func New(cfg *config.Config, needs *services.NeedsService, messaging *services.MessagingService, profiles Profiles) *Plugin {
	return &Plugin{
		cfg:     cfg,
		handler: NewNeedHandler(needs, messaging, profiles),
	}
}

func (p *Plugin) ID() string { return "needs" }

func (p *Plugin) RegisterRoutes(public, protected fiber.Router) {
	h := p.handler

	// Browsing is open; a token only adds the saved flag
	public.Get("/needs", h.List)
	public.Get("/needs/locations", h.Locations)
	public.Get("/needs/:id", middleware.OptionalJWT(p.cfg), h.Get)

	protected.Get("/needs/mine", h.Mine)
	protected.Get("/needs/saved", h.Saved)
	protected.Post("/needs", h.Create)
	protected.Put("/needs/:id", h.Update)
	protected.Delete("/needs/:id", h.Delete)
	protected.Post("/needs/:id/save", h.ToggleSave)
	protected.Post("/needs/:id/contact", h.Contact)
}
