package needs

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/yagontorron/needitv1/internal/dto"
	"github.com/yagontorron/needitv1/internal/handlers"
	"github.com/yagontorron/needitv1/internal/middleware"
	"github.com/yagontorron/needitv1/internal/models"
	"github.com/yagontorron/needitv1/internal/services"
)

// Profiles resolves a user's public profile.
type Profiles interface {
	Profile(userID string) (*models.User, error)
}

type NeedHandler struct {
	needs     *services.NeedsService
	messaging *services.MessagingService
	profiles  Profiles
}

func NewNeedHandler(needs *services.NeedsService, messaging *services.MessagingService, profiles Profiles) *NeedHandler {
	return &NeedHandler{needs: needs, messaging: messaging, profiles: profiles}
}

// List serves the home feed, or a search when any filter is given.
func (h *NeedHandler) List(c *fiber.Ctx) error {
	filter := services.NeedFilter{
		Query:      strings.TrimSpace(c.Query("q")),
		CategoryID: strings.TrimSpace(c.Query("category")),
		Location:   strings.TrimSpace(c.Query("location")),
	}

	var list []models.Need
	if filter == (services.NeedFilter{}) {
		list = h.needs.ListNeeds()
	} else {
		list = h.needs.Search(c.UserContext(), filter)
	}
	return c.JSON(dto.NeedListResponse{Needs: list, Total: len(list)})
}

func (h *NeedHandler) Locations(c *fiber.Ctx) error {
	return c.JSON(dto.LocationsResponse{Locations: h.needs.Locations()})
}

// Get returns the need with its owner and category. The saved flag is set
// only for authenticated callers.
func (h *NeedHandler) Get(c *fiber.Ctx) error {
	need, err := h.needs.GetNeedByID(c.Params("id"))
	if err != nil {
		return handlers.RespondError(c, err)
	}

	resp := dto.NeedDetailResponse{Need: *need}
	if owner, err := h.profiles.Profile(need.UserID); err == nil {
		resp.Owner = owner
	}
	if cat, ok := h.needs.Category(need.CategoryID); ok {
		resp.Category = cat
	}
	if userID, err := middleware.UserID(c); err == nil {
		resp.Saved = h.needs.IsSaved(userID, need.ID)
	}
	return c.JSON(resp)
}

func (h *NeedHandler) Mine(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	list := h.needs.GetUserNeeds(c.UserContext(), userID)
	return c.JSON(dto.NeedListResponse{Needs: list, Total: len(list)})
}

func (h *NeedHandler) Saved(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	list := h.needs.GetSavedNeeds(c.UserContext(), userID)
	return c.JSON(dto.NeedListResponse{Needs: list, Total: len(list)})
}

func (h *NeedHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	var req dto.CreateNeedRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadBody(c)
	}

	need, err := h.needs.AddNeed(c.UserContext(), userID, &req)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(need)
}

func (h *NeedHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	var req dto.UpdateNeedRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadBody(c)
	}

	need, err := h.needs.UpdateNeed(c.UserContext(), userID, c.Params("id"), &req)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(need)
}

func (h *NeedHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	if err := h.needs.DeleteNeed(c.UserContext(), userID, c.Params("id")); err != nil {
		return handlers.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NeedHandler) ToggleSave(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	needID := c.Params("id")
	saved, err := h.needs.ToggleSaveNeed(c.UserContext(), userID, needID)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(dto.ToggleSaveResponse{NeedID: needID, Saved: saved})
}

// Contact opens, or reuses, the conversation with the need's owner.
func (h *NeedHandler) Contact(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	need, err := h.needs.GetNeedByID(c.Params("id"))
	if err != nil {
		return handlers.RespondError(c, err)
	}

	convID, err := h.messaging.StartConversation(c.UserContext(), need.ID, userID, need.UserID)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(dto.StartConversationResponse{ConversationID: convID})
}
