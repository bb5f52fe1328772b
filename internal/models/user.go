package models

// User is a NeedIt account. The password hash lives in the store and is
// never part of the serialized record.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Location    string `json:"location,omitempty"`
	Bio         string `json:"bio,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}
