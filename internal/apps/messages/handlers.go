package messages

import (
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

type MessageHandler struct {
	messaging *services.MessagingService
	needs     *services.NeedsService
	profiles  Profiles
}

func NewMessageHandler(messaging *services.MessagingService, needs *services.NeedsService, profiles Profiles) *MessageHandler {
	return &MessageHandler{messaging: messaging, needs: needs, profiles: profiles}
}

func (h *MessageHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	convs := h.messaging.GetUserConversations(c.UserContext(), userID)
	unread := h.messaging.UnreadConversations(userID)

	out := make([]dto.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		_, isUnread := unread[conv.ID]
		out = append(out, h.summarize(conv, userID, isUnread))
	}
	return c.JSON(dto.ConversationListResponse{Conversations: out})
}

func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}
	return c.JSON(dto.UnreadCountResponse{Count: h.messaging.GetUnreadCount(userID)})
}

func (h *MessageHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	conv, err := h.messaging.GetConversation(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(h.summarize(*conv, userID, h.messaging.HasUnread(conv.ID, userID)))
}

func (h *MessageHandler) Messages(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	msgs, err := h.messaging.GetMessagesForConversation(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.JSON(dto.MessageListResponse{Messages: msgs})
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadBody(c)
	}

	msg, err := h.messaging.SendMessage(c.UserContext(), c.Params("id"), userID, req.Text)
	if err != nil {
		return handlers.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	if err := h.messaging.MarkConversationAsRead(c.UserContext(), c.Params("id"), userID); err != nil {
		return handlers.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// summarize attaches the other member and the need. Either is omitted when
// it no longer resolves, as with a deleted need.
func (h *MessageHandler) summarize(conv models.Conversation, userID string, unread bool) dto.ConversationSummary {
	s := dto.ConversationSummary{Conversation: conv, Unread: unread}
	if other, err := h.profiles.Profile(conv.OtherMember(userID)); err == nil {
		s.OtherUser = other
	}
	if need, err := h.needs.GetNeedByID(conv.NeedID); err == nil {
		s.Need = need
	}
	return s
}
