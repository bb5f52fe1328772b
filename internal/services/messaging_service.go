package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/yagontorron/needitv1/internal/models"
	"github.com/yagontorron/needitv1/internal/store"
)

type MessagingService struct {
	store   *store.Store
	latency *Latency
	newID   func() string
}

func NewMessagingService(st *store.Store, latency *Latency) *MessagingService {
	return &MessagingService{
		store:   st,
		latency: latency,
		newID:   uuid.NewString,
	}
}

// GetUserConversations lists the user's conversations, most recent
// activity first.
func (s *MessagingService) GetUserConversations(ctx context.Context, userID string) []models.Conversation {
	s.latency.Wait(OpConversations)

	var out []models.Conversation
	_ = s.store.View(func(tx *store.Tx) error {
		for _, c := range tx.ListConversations() {
			if c.HasMember(userID) {
				out = append(out, c)
			}
		}
		return nil
	})
	slices.SortStableFunc(out, func(a, b models.Conversation) int {
		return cmp.Compare(b.LastActivity(), a.LastActivity())
	})
	if out == nil {
		out = []models.Conversation{}
	}
	return out
}

// GetConversation returns the conversation if userID is one of its members.
func (s *MessagingService) GetConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	var c models.Conversation
	var ok bool
	_ = s.store.View(func(tx *store.Tx) error {
		c, ok = tx.FindConversation(conversationID)
		return nil
	})
	if !ok {
		return nil, ErrConversationNotFound
	}
	if !c.HasMember(userID) {
		return nil, ErrNotMember
	}
	return &c, nil
}

// GetMessagesForConversation returns the messages oldest first. Only
// members may read them.
func (s *MessagingService) GetMessagesForConversation(ctx context.Context, conversationID, readerID string) ([]models.Message, error) {
	if readerID == "" {
		return nil, ErrNotAuthenticated
	}

	s.latency.Wait(OpMessages)

	var msgs []models.Message
	err := s.store.View(func(tx *store.Tx) error {
		c, ok := tx.FindConversation(conversationID)
		if !ok {
			return ErrConversationNotFound
		}
		if !c.HasMember(readerID) {
			return ErrNotMember
		}
		msgs = tx.MessagesIn(conversationID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// SendMessage appends an unread message from senderID and makes it the
// conversation's last message. Text is trimmed; blank text is rejected.
func (s *MessagingService) SendMessage(ctx context.Context, conversationID, senderID, text string) (*models.Message, error) {
	if senderID == "" {
		return nil, ErrNotAuthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.latency.Wait(OpSendMessage)

	var sent models.Message
	err := s.store.Update(func(tx *store.Tx) error {
		c, ok := tx.FindConversation(conversationID)
		if !ok {
			return ErrConversationNotFound
		}
		if !c.HasMember(senderID) {
			return ErrNotMember
		}
		now := s.store.Now()
		// keep last_message the newest message even if the clock steps back
		if c.LastMessage != nil && c.LastMessage.CreatedAt > now {
			now = c.LastMessage.CreatedAt
		}
		var err error
		sent, err = tx.AppendMessage(models.Message{
			ID:             s.newID(),
			ConversationID: conversationID,
			SenderID:       senderID,
			Text:           text,
			CreatedAt:      now,
			Read:           false,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "message sent", "conversation_id", conversationID, "user_id", senderID, "message_id", sent.ID)
	return &sent, nil
}

// StartConversation returns the conversation about needID between userID
// and otherUserID, creating it when none exists. The pair is unordered.
func (s *MessagingService) StartConversation(ctx context.Context, needID, userID, otherUserID string) (string, error) {
	if userID == "" {
		return "", ErrNotAuthenticated
	}
	if otherUserID == "" {
		return "", ErrUserNotFound
	}
	if userID == otherUserID {
		return "", ErrSelfConversation
	}

	var existing string
	_ = s.store.View(func(tx *store.Tx) error {
		if c, ok := tx.FindConversationBetween(needID, userID, otherUserID); ok {
			existing = c.ID
		}
		return nil
	})
	if existing != "" {
		return existing, nil
	}

	// delay only applies when a conversation has to be created
	s.latency.Wait(OpStartConversation)

	var conv models.Conversation
	var created bool
	err := s.store.Update(func(tx *store.Tx) error {
		if _, ok := tx.FindNeed(needID); !ok {
			return ErrNeedNotFound
		}
		for _, id := range []string{userID, otherUserID} {
			if _, ok := tx.FindUser(id); !ok {
				return ErrUserNotFound
			}
		}
		var err error
		conv, created, err = tx.FindOrCreateConversation(models.Conversation{
			ID:        s.newID(),
			NeedID:    needID,
			Members:   []string{userID, otherUserID},
			CreatedAt: s.store.Now(),
		})
		return err
	})
	if err != nil {
		return "", err
	}

	if created {
		slog.InfoContext(ctx, "conversation started",
			"conversation_id", conv.ID, "need_id", needID, "user_id", userID, "other_user_id", otherUserID)
	}
	return conv.ID, nil
}

// MarkConversationAsRead marks every message in the conversation that
// readerID did not send as read.
func (s *MessagingService) MarkConversationAsRead(ctx context.Context, conversationID, readerID string) error {
	if readerID == "" {
		return ErrNotAuthenticated
	}

	s.latency.Wait(OpMarkRead)

	var changed int
	err := s.store.Update(func(tx *store.Tx) error {
		c, ok := tx.FindConversation(conversationID)
		if !ok {
			return ErrConversationNotFound
		}
		if !c.HasMember(readerID) {
			return ErrNotMember
		}
		var err error
		changed, err = tx.MarkRead(conversationID, readerID)
		if err != nil {
			return fmt.Errorf("mark read: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if changed > 0 {
		slog.InfoContext(ctx, "conversation read", "conversation_id", conversationID, "user_id", readerID, "messages", changed)
	}
	return nil
}

// GetUnreadCount counts the user's conversations holding at least one
// unread message from the other member.
func (s *MessagingService) GetUnreadCount(userID string) int {
	return len(s.UnreadConversations(userID))
}

func (s *MessagingService) HasUnread(conversationID, userID string) bool {
	_, ok := s.UnreadConversations(userID)[conversationID]
	return ok
}

func (s *MessagingService) UnreadConversations(userID string) map[string]struct{} {
	var out map[string]struct{}
	_ = s.store.View(func(tx *store.Tx) error {
		out = tx.UnreadConversations(userID)
		return nil
	})
	return out
}
