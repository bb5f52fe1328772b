package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yagontorron/needitv1/internal/config"
	"github.com/yagontorron/needitv1/internal/dto"
	"github.com/yagontorron/needitv1/internal/models"
	"github.com/yagontorron/needitv1/internal/session"
	"github.com/yagontorron/needitv1/internal/store"
)

// UserRepository is the user directory the services resolve identities
// against.
type UserRepository interface {
	FindUser(id string) (models.User, bool)
	FindUserByEmail(email string) (models.User, []byte, bool)
	CreateUser(u models.User, passwordHash []byte) (models.User, error)
	UpdateUser(id string, fn func(u *models.User) error) (models.User, error)
}

const minPasswordLen = 8

// HashPassword is the bcrypt hash used for stored credentials.
func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

type AuthService struct {
	users   UserRepository
	session session.Store
	cfg     *config.Config
	latency *Latency
	now     func() time.Time

	mu      sync.RWMutex
	current *models.User
}

func NewAuthService(users UserRepository, sess session.Store, cfg *config.Config, latency *Latency) *AuthService {
	return &AuthService{
		users:   users,
		session: sess,
		cfg:     cfg,
		latency: latency,
		now:     time.Now,
	}
}

// Restore loads the persisted session. A session naming a user the
// directory no longer knows is discarded.
func (s *AuthService) Restore(ctx context.Context) (*models.User, bool) {
	u, ok := s.session.Load(ctx)
	if !ok {
		return nil, false
	}
	if _, known := s.users.FindUser(u.ID); !known {
		slog.WarnContext(ctx, "persisted session names an unknown user", "user_id", u.ID)
		s.clearSession(ctx)
		return nil, false
	}
	s.setCurrent(u)
	slog.InfoContext(ctx, "session restored", "user_id", u.ID)
	return u, true
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.DisplayName)
	if email == "" || name == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, ErrMissingFields
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(req.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	s.latency.Wait(OpAuth)

	if _, _, taken := s.users.FindUserByEmail(email); taken {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(models.User{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: name,
		CreatedAt:   s.now().UnixMilli(),
	}, hash)
	if errors.Is(err, store.ErrExists) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return s.signIn(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	s.latency.Wait(OpAuth)

	user, hash, ok := s.users.FindUserByEmail(req.Email)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return s.signIn(ctx, &user)
}

// Logout ends the session of userID. The persisted slot is cleared only if
// it belongs to that user.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	s.mu.Lock()
	owned := s.current != nil && s.current.ID == userID
	if owned {
		s.current = nil
	}
	s.mu.Unlock()

	if owned {
		s.clearSession(ctx)
	}
	slog.InfoContext(ctx, "user logged out", "user_id", userID)
}

// CurrentUser is the user held in the session slot, if any.
func (s *AuthService) CurrentUser() (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	u := *s.current
	return &u, true
}

func (s *AuthService) Profile(userID string) (*models.User, error) {
	u, ok := s.users.FindUser(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.User, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		return nil, ErrEmptyDisplayName
	}

	user, err := s.users.UpdateUser(userID, func(u *models.User) error {
		if req.DisplayName != nil {
			u.DisplayName = strings.TrimSpace(*req.DisplayName)
		}
		if req.PhotoURL != nil {
			u.PhotoURL = *req.PhotoURL
		}
		if req.Location != nil {
			u.Location = *req.Location
		}
		if req.Bio != nil {
			u.Bio = *req.Bio
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.mu.Lock()
	persist := s.current != nil && s.current.ID == userID
	if persist {
		s.current = &user
	}
	s.mu.Unlock()
	if persist {
		s.saveSession(ctx, &user)
	}

	slog.InfoContext(ctx, "profile updated", "user_id", userID)
	return &user, nil
}

func (s *AuthService) signIn(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	token, exp, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	s.setCurrent(user)
	s.saveSession(ctx, user)
	return &dto.AuthResponse{
		AccessToken: token,
		ExpiresAt:   exp.Unix(),
		User:        *user,
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.JWTAccessExpiry)
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, exp, nil
}

func (s *AuthService) setCurrent(u *models.User) {
	cp := *u
	s.mu.Lock()
	s.current = &cp
	s.mu.Unlock()
}

// Session persistence failures are logged and never fail the caller.
func (s *AuthService) saveSession(ctx context.Context, u *models.User) {
	if err := s.session.Save(ctx, u); err != nil {
		slog.ErrorContext(ctx, "failed to persist session", "user_id", u.ID, "error", err)
	}
}

func (s *AuthService) clearSession(ctx context.Context) {
	if err := s.session.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to clear session", "error", err)
	}
}
