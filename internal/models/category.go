package models

// Category is one of the fixed listing categories. Icon is a symbolic name
// resolved by the client.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}
