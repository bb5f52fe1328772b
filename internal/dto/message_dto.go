package dto

import "github.com/yagontorron/needitv1/internal/models"

type SendMessageRequest struct {
	Text string `json:"text"`
}

// ConversationSummary is one row of the conversation list.
type ConversationSummary struct {
	models.Conversation
	OtherUser *models.User `json:"other_user,omitempty"`
	Need      *models.Need `json:"need,omitempty"`
	Unread    bool         `json:"unread"`
}

type ConversationListResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
}

type MessageListResponse struct {
	Messages []models.Message `json:"messages"`
}

type StartConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
