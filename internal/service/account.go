package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/sdp_shop/internal/models"
	"github.com/Skotchmaster/sdp_shop/internal/store"
	"github.com/Skotchmaster/sdp_shop/internal/transport"
	"github.com/Skotchmaster/sdp_shop/pkg/events"
	pkghash "github.com/Skotchmaster/sdp_shop/pkg/hash"
	"github.com/Skotchmaster/sdp_shop/pkg/i18n"
	"github.com/Skotchmaster/sdp_shop/pkg/logging"
	"github.com/google/uuid"
)

type AccountService struct {
	Store  store.Users
	Events events.Publisher
}

func userStoreError(err error) error {
	var dup *store.DuplicateError
	switch {
	case errors.As(err, &dup):
		if dup.Field == "" {
			return conflict("", i18n.Duplicate)
		}
		return conflict(dup.Field, i18n.UserDuplicate, dup.Field)
	case errors.Is(err, store.ErrNotFound):
		return notFound(i18n.UserNotFound, err)
	}
	return err
}

func (s *AccountService) Register(ctx context.Context, req transport.RegisterUserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "account.register")

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, invalid("", i18n.UserRequired)
	}

	pwHash, err := pkghash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Address:      req.Address,
		Role:         models.DefaultRole,
	}
	if err := s.Store.CreateUser(ctx, user); err != nil {
		return nil, userStoreError(err)
	}

	events.Emit(ctx, s.Events, events.TopicUsers, user.ID.String(), events.Event{
		"type":     "user_registered",
		"userId":   user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Store.ListUsers(ctx)
}

func (s *AccountService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.Store.GetUser(ctx, id)
	if err != nil {
		return nil, userStoreError(err)
	}
	return u, nil
}

// UpdateUser replaces username, email and password. Role and address change
// only when supplied.
func (s *AccountService) UpdateUser(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, invalid("", i18n.UserRequired)
	}

	current, err := s.Store.GetUser(ctx, id)
	if err != nil {
		return nil, userStoreError(err)
	}

	pwHash, err := pkghash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Address:      req.Address,
		Role:         current.Role,
	}
	if req.Role != nil && strings.TrimSpace(*req.Role) != "" {
		user.Role = strings.TrimSpace(*req.Role)
	}

	if err := s.Store.UpdateUser(ctx, user); err != nil {
		return nil, userStoreError(err)
	}

	events.Emit(ctx, s.Events, events.TopicUsers, id.String(), events.Event{
		"type":   "user_updated",
		"userId": id,
	})
	return user, nil
}

func (s *AccountService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.Store.DeleteUser(ctx, id); err != nil {
		return userStoreError(err)
	}

	events.Emit(ctx, s.Events, events.TopicUsers, id.String(), events.Event{
		"type":   "user_deleted",
		"userId": id,
	})
	return nil
}
