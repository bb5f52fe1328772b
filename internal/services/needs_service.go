package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/yagontorron/needitv1/internal/dto"
	"github.com/yagontorron/needitv1/internal/models"
	"github.com/yagontorron/needitv1/internal/store"
)

type NeedsService struct {
	store   *store.Store
	latency *Latency
	newID   func() string
}

func NewNeedsService(st *store.Store, latency *Latency) *NeedsService {
	return &NeedsService{
		store:   st,
		latency: latency,
		newID:   uuid.NewString,
	}
}

// AddNeed posts a new active need owned by ownerID at the head of the
// listing.
func (s *NeedsService) AddNeed(ctx context.Context, ownerID string, req *dto.CreateNeedRequest) (*models.Need, error) {
	if ownerID == "" {
		return nil, ErrNotAuthenticated
	}
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	categoryID := strings.TrimSpace(req.CategoryID)
	if title == "" || description == "" || categoryID == "" {
		return nil, ErrValidation
	}
	if err := checkImagesAndPrice(req.Images, req.Price); err != nil {
		return nil, err
	}

	s.latency.Wait(OpAddNeed)

	var created models.Need
	err := s.store.Update(func(tx *store.Tx) error {
		if _, ok := tx.FindUser(ownerID); !ok {
			return ErrUserNotFound
		}
		if _, ok := tx.FindCategory(categoryID); !ok {
			return ErrCategoryNotFound
		}
		now := s.store.Now()
		n := models.Need{
			ID:          s.newID(),
			UserID:      ownerID,
			Title:       title,
			Description: description,
			CategoryID:  categoryID,
			Price:       req.Price,
			Location:    req.Location,
			Images:      req.Images,
			CreatedAt:   now,
			UpdatedAt:   now,
			Status:      models.NeedActive,
		}
		var err error
		created, err = tx.InsertNeed(n)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "need created", "need_id", created.ID, "user_id", ownerID, "category_id", categoryID)
	return &created, nil
}

// UpdateNeed merges the present fields into the need. Only the owner may
// update it; updated_at never moves backwards.
func (s *NeedsService) UpdateNeed(ctx context.Context, actorID, id string, req *dto.UpdateNeedRequest) (*models.Need, error) {
	if actorID == "" {
		return nil, ErrNotAuthenticated
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	var images []string
	if req.Images != nil {
		images = *req.Images
	}
	if err := checkImagesAndPrice(images, req.Price); err != nil {
		return nil, err
	}

	s.latency.Wait(OpUpdateNeed)

	var updated models.Need
	err := s.store.Update(func(tx *store.Tx) error {
		current, ok := tx.FindNeed(id)
		if !ok {
			return ErrNeedNotFound
		}
		if current.UserID != actorID {
			return ErrForbidden
		}
		if req.CategoryID != nil {
			if _, ok := tx.FindCategory(strings.TrimSpace(*req.CategoryID)); !ok {
				return ErrCategoryNotFound
			}
		}

		var err error
		updated, err = tx.UpdateNeed(id, func(n *models.Need) error {
			return mergeNeed(n, req, s.store.Now())
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "need updated", "need_id", id, "user_id", actorID, "status", updated.Status)
	return &updated, nil
}

func mergeNeed(n *models.Need, req *dto.UpdateNeedRequest, now int64) error {
	if req.Title != nil {
		n.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		n.Description = strings.TrimSpace(*req.Description)
	}
	if req.CategoryID != nil {
		n.CategoryID = strings.TrimSpace(*req.CategoryID)
	}
	if req.Price != nil {
		p := *req.Price
		n.Price = &p
	}
	if req.Location != nil {
		l := *req.Location
		n.Location = &l
	}
	if req.Images != nil {
		n.Images = append([]string{}, (*req.Images)...)
	}
	if req.Status != nil {
		n.Status = *req.Status
	}
	if n.Title == "" || n.Description == "" || n.CategoryID == "" {
		return ErrValidation
	}
	if now > n.UpdatedAt {
		n.UpdatedAt = now
	}
	return nil
}

// DeleteNeed removes an owned need and drops it from every saved set.
// Conversations about the need are kept.
func (s *NeedsService) DeleteNeed(ctx context.Context, actorID, id string) error {
	if actorID == "" {
		return ErrNotAuthenticated
	}

	s.latency.Wait(OpDeleteNeed)

	var orphans []string
	err := s.store.Update(func(tx *store.Tx) error {
		n, ok := tx.FindNeed(id)
		if !ok {
			return ErrNeedNotFound
		}
		if n.UserID != actorID {
			return ErrForbidden
		}
		var err error
		orphans, err = tx.DeleteNeed(id)
		return err
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "need deleted", "need_id", id, "user_id", actorID)
	if len(orphans) > 0 {
		slog.WarnContext(ctx, "conversations reference a deleted need",
			"need_id", id, "conversation_ids", orphans)
	}
	return nil
}

// GetNeedByID is a synchronous lookup with no simulated delay.
func (s *NeedsService) GetNeedByID(id string) (*models.Need, error) {
	var n models.Need
	var ok bool
	_ = s.store.View(func(tx *store.Tx) error {
		n, ok = tx.FindNeed(id)
		return nil
	})
	if !ok {
		return nil, ErrNeedNotFound
	}
	return &n, nil
}

// GetUserNeeds lists the needs posted by ownerID, most recent first.
func (s *NeedsService) GetUserNeeds(ctx context.Context, ownerID string) []models.Need {
	s.latency.Wait(OpUserNeeds)
	return FilterNeeds(s.ListNeeds(), func(n models.Need) bool { return n.UserID == ownerID })
}

func (s *NeedsService) GetSavedNeeds(ctx context.Context, userID string) []models.Need {
	s.latency.Wait(OpSavedNeeds)
	var out []models.Need
	_ = s.store.View(func(tx *store.Tx) error {
		out = tx.SavedNeeds(userID)
		return nil
	})
	return out
}

// ToggleSaveNeed flips needID in the user's saved set and returns whether
// it is now saved.
func (s *NeedsService) ToggleSaveNeed(ctx context.Context, userID, needID string) (bool, error) {
	if userID == "" {
		return false, ErrNotAuthenticated
	}

	s.latency.Wait(OpToggleSave)

	var saved bool
	err := s.store.Update(func(tx *store.Tx) error {
		var err error
		saved, err = tx.ToggleSaved(userID, needID)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return false, ErrNeedNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle saved need: %w", err)
	}

	slog.InfoContext(ctx, "need save toggled", "need_id", needID, "user_id", userID, "saved", saved)
	return saved, nil
}

func (s *NeedsService) IsSaved(userID, needID string) bool {
	var saved bool
	_ = s.store.View(func(tx *store.Tx) error {
		saved = tx.IsSaved(userID, needID)
		return nil
	})
	return saved
}

// Search applies the filter to the full listing.
func (s *NeedsService) Search(ctx context.Context, f NeedFilter) []models.Need {
	s.latency.Wait(OpSearch)
	return FilterNeeds(s.ListNeeds(), f.Predicates()...)
}

// ListNeeds returns every need, most recent first.
func (s *NeedsService) ListNeeds() []models.Need {
	var out []models.Need
	_ = s.store.View(func(tx *store.Tx) error {
		out = tx.ListNeeds()
		return nil
	})
	return out
}

func (s *NeedsService) Locations() []string {
	return Locations(s.ListNeeds())
}

func (s *NeedsService) Categories() []models.Category {
	var out []models.Category
	_ = s.store.View(func(tx *store.Tx) error {
		out = tx.ListCategories()
		return nil
	})
	return out
}

func (s *NeedsService) Category(id string) (*models.Category, bool) {
	var c models.Category
	var ok bool
	_ = s.store.View(func(tx *store.Tx) error {
		c, ok = tx.FindCategory(id)
		return nil
	})
	if !ok {
		return nil, false
	}
	return &c, true
}

func checkImagesAndPrice(images []string, price *float64) error {
	if len(images) > models.MaxNeedImages {
		return ErrTooManyImages
	}
	if price != nil && *price < 0 {
		return ErrInvalidPrice
	}
	return nil
}
