package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
	"church-portal-api/internal/repositories"
)

// Collection names and key attributes of the key-value stores
const (
	UsersCollection  = "users"
	UsersKeyAttr     = "user_id"
	AdminsCollection = "admins"
	AdminsKeyAttr    = "id"
)

// directoryService implements the DirectoryService interface
type directoryService struct {
	store  repositories.ItemStore
	logger *logrus.Logger
}

// NewDirectoryService creates a new directory service instance
func NewDirectoryService(store repositories.ItemStore, logger *logrus.Logger) DirectoryService {
	if logger == nil {
		logger = logrus.New()
	}
	return &directoryService{store: store, logger: logger}
}

// ListUsers returns one page of users
func (s *directoryService) ListUsers(ctx context.Context, limit int, cursor string) (*UserPage, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	startKey, err := decodeCursor(UsersKeyAttr, cursor)
	if err != nil {
		return nil, err
	}

	page, err := s.store.List(ctx, limit, startKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := &UserPage{
		Users:            make([]*models.DirectoryUser, 0, len(page.Items)),
		LastEvaluatedKey: encodeCursor(UsersKeyAttr, page.LastKey),
	}
	for _, item := range page.Items {
		result.Users = append(result.Users, toDirectoryUser(item))
	}
	return result, nil
}

// CreateUser adds a user record
func (s *directoryService) CreateUser(ctx context.Context, req *models.CreateDirectoryUserRequest) (*models.DirectoryUser, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	item := &repositories.Item{
		ID: strings.TrimSpace(req.UserID),
		Attributes: map[string]string{
			"name":  req.Name,
			"email": req.Email,
		},
	}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithField("user_id", item.ID).Info("Directory user created")
	return toDirectoryUser(item), nil
}

// GetUser returns a user record
func (s *directoryService) GetUser(ctx context.Context, id string) (*models.DirectoryUser, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDirectoryUser(item), nil
}

// UpdateUser changes the non-empty fields of a user record
func (s *directoryService) UpdateUser(ctx context.Context, id string, req *models.UpdateDirectoryUserRequest) (*models.DirectoryUser, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	attrs := map[string]string{}
	if name := strings.TrimSpace(req.Name); name != "" {
		attrs["name"] = name
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		attrs["email"] = email
	}

	item, err := s.store.Update(ctx, id, attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return toDirectoryUser(item), nil
}

// DeleteUser removes a user record
func (s *directoryService) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.WithField("user_id", id).Info("Directory user deleted")
	return nil
}

func toDirectoryUser(item *repositories.Item) *models.DirectoryUser {
	return &models.DirectoryUser{
		UserID: item.ID,
		Name:   item.Attributes["name"],
		Email:  item.Attributes["email"],
	}
}
