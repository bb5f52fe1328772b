package models

import "slices"

type LastMessage struct {
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
	SenderID  string `json:"sender_id"`
}

// Conversation is a two-member thread about a single need.
type Conversation struct {
	ID          string       `json:"id"`
	NeedID      string       `json:"need_id"`
	Members     []string     `json:"members"`
	LastMessage *LastMessage `json:"last_message,omitempty"`
	CreatedAt   int64        `json:"created_at"`
}

func (c Conversation) HasMember(userID string) bool {
	return slices.Contains(c.Members, userID)
}

// OtherMember returns the member that is not userID.
func (c Conversation) OtherMember(userID string) string {
	for _, m := range c.Members {
		if m != userID {
			return m
		}
	}
	return ""
}

// IsBetween reports whether the members are exactly {a, b}, in any order.
func (c Conversation) IsBetween(a, b string) bool {
	if len(c.Members) != 2 {
		return false
	}
	return (c.Members[0] == a && c.Members[1] == b) || (c.Members[0] == b && c.Members[1] == a)
}

// LastActivity is the time of the newest message, or CreatedAt for an
// empty conversation.
func (c Conversation) LastActivity() int64 {
	if c.LastMessage != nil && c.LastMessage.CreatedAt > c.CreatedAt {
		return c.LastMessage.CreatedAt
	}
	return c.CreatedAt
}

func (c Conversation) Clone() Conversation {
	out := c
	out.Members = slices.Clone(c.Members)
	if c.LastMessage != nil {
		lm := *c.LastMessage
		out.LastMessage = &lm
	}
	return out
}
