package models

// Message is immutable once sent except for Read, which only goes from
// false to true.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Text           string `json:"text"`
	CreatedAt      int64  `json:"created_at"`
	Read           bool   `json:"read"`
}
