package dto

import "github.com/yagontorron/needitv1/internal/models"

type CreateNeedRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	CategoryID  string           `json:"category_id"`
	Price       *float64         `json:"price,omitempty"`
	Location    *models.Location `json:"location,omitempty"`
	Images      []string         `json:"images,omitempty"`
}

// UpdateNeedRequest merges the fields that are present into the need.
type UpdateNeedRequest struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	CategoryID  *string            `json:"category_id,omitempty"`
	Price       *float64           `json:"price,omitempty"`
	Location    *models.Location   `json:"location,omitempty"`
	Images      *[]string          `json:"images,omitempty"`
	Status      *models.NeedStatus `json:"status,omitempty"`
}

type NeedListResponse struct {
	Needs []models.Need `json:"needs"`
	Total int           `json:"total"`
}

// NeedDetailResponse is a need with the owner's public profile and the
// caller's saved flag.
type NeedDetailResponse struct {
	Need     models.Need      `json:"need"`
	Owner    *models.User     `json:"owner,omitempty"`
	Category *models.Category `json:"category,omitempty"`
	Saved    bool             `json:"saved"`
}

type ToggleSaveResponse struct {
	NeedID string `json:"need_id"`
	Saved  bool   `json:"saved"`
}

type LocationsResponse struct {
	Locations []string `json:"locations"`
}

type CategoriesResponse struct {
	Categories []models.Category `json:"categories"`
}
