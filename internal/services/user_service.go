package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/puzzlequest/internal/clock"
	"github.com/vytor/puzzlequest/internal/errors"
	"github.com/vytor/puzzlequest/internal/events"
	"github.com/vytor/puzzlequest/internal/logger"
	"github.com/vytor/puzzlequest/internal/models"
	"github.com/vytor/puzzlequest/internal/store"
)

const minPasswordLength = 6

// UserService manages the single local account and its settings.
type UserService interface {
	Signup(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	Settings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, patch models.SettingsPatch) (*models.Settings, error)
}

type userService struct {
	store    *store.Store
	clock    clock.Clock
	notifier Notifier
}

// NewUserService creates a new UserService
func NewUserService(st *store.Store, c clock.Clock, n Notifier) UserService {
	return &userService{store: st, clock: c, notifier: orNop(n)}
}

func (s *userService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user")
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	log.Debug("signing up: email=%s", email)

	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.NewValidationError("email", "must be a valid address")
	}
	if len(password) < minPasswordLength {
		return nil, errors.NewValidationError("password", "must be at least 6 characters")
	}

	existing, err := s.store.User(ctx)
	if err != nil {
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil && strings.EqualFold(existing.Email, email) {
		return nil, errors.NewConflictError("an account with this email already exists")
	}

	now := s.clock.Now()
	user := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: now,
		LastLogin: now,
	}
	if err := s.store.Save(ctx, store.KindUser, user); err != nil {
		log.Error("failed to save user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("account created: id=%s", user.ID)
	return &user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user")
	email = strings.TrimSpace(email)
	log.Debug("logging in: email=%s", email)

	user, err := s.store.User(ctx)
	if err != nil {
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil || !strings.EqualFold(user.Email, email) || user.Password != password {
		return nil, errors.NewUnauthorizedError("invalid email or password")
	}

	user.LastLogin = s.clock.Now()
	if err := s.store.Save(ctx, store.KindUser, map[string]any{"lastLogin": user.LastLogin}); err != nil {
		log.Error("failed to update last login: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

// Logout wipes the whole profile.
func (s *userService) Logout(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("user")
	if err := s.store.Clear(ctx); err != nil {
		log.Error("failed to clear profile: %v", err)
		return errors.NewInternalError(err)
	}
	s.notifier.Publish(ctx, events.Event{Type: events.ProfileCleared, Source: "logout", At: s.clock.Now()})
	log.Info("profile cleared")
	return nil
}

func (s *userService) CurrentUser(ctx context.Context) (*models.User, error) {
	user, err := s.store.User(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", "current")
	}
	return user, nil
}

func (s *userService) Settings(ctx context.Context) (*models.Settings, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load settings: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &settings, nil
}

func (s *userService) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (*models.Settings, error) {
	log := logger.FromContext(ctx).WithPrefix("user")

	if patch.Difficulty != nil && !patch.Difficulty.Valid() {
		return nil, errors.NewValidationError("difficulty", "must be easy, medium, hard or expert")
	}
	if patch.Theme != nil && *patch.Theme != "dark" && *patch.Theme != "light" {
		return nil, errors.NewValidationError("theme", "must be dark or light")
	}
	if patch.Language != nil && strings.TrimSpace(*patch.Language) == "" {
		return nil, errors.NewValidationError("language", "cannot be empty")
	}

	// Nil fields are omitted, so only the provided ones are merged.
	if err := s.store.Save(ctx, store.KindSettings, patch); err != nil {
		log.Error("failed to save settings: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.Settings(ctx)
}
