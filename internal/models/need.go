package models

import "slices"

type NeedStatus string

const (
	NeedActive    NeedStatus = "active"
	NeedFulfilled NeedStatus = "fulfilled"
	NeedClosed    NeedStatus = "closed"
)

// MaxNeedImages caps the number of image URIs attached to a need.
const MaxNeedImages = 5

func (s NeedStatus) Valid() bool {
	switch s {
	case NeedActive, NeedFulfilled, NeedClosed:
		return true
	}
	return false
}

type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Need is a request for goods or services posted by a user.
type Need struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CategoryID  string     `json:"category_id"`
	Price       *float64   `json:"price,omitempty"`
	Location    *Location  `json:"location,omitempty"`
	Images      []string   `json:"images"`
	CreatedAt   int64      `json:"created_at"`
	UpdatedAt   int64      `json:"updated_at"`
	Status      NeedStatus `json:"status"`
}

// LocationName returns the location name or "" when the need has none.
func (n Need) LocationName() string {
	if n.Location == nil {
		return ""
	}
	return n.Location.Name
}

// Clone returns a copy that shares no memory with n.
func (n Need) Clone() Need {
	out := n
	if n.Price != nil {
		p := *n.Price
		out.Price = &p
	}
	if n.Location != nil {
		l := *n.Location
		out.Location = &l
	}
	out.Images = slices.Clone(n.Images)
	if out.Images == nil {
		out.Images = []string{}
	}
	return out
}
