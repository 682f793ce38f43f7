package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
	"church-portal-api/internal/repositories"
)

// ErrInvalidCredentials is returned when an administrator password does not match
var ErrInvalidCredentials = errors.New("invalid credentials")

// adminService implements the AdminService interface
type adminService struct {
	store  repositories.ItemStore
	logger *logrus.Logger
	now    func() time.Time
}

// NewAdminService creates a new admin service instance
func NewAdminService(store repositories.ItemStore, logger *logrus.Logger) AdminService {
	if logger == nil {
		logger = logrus.New()
	}
	return &adminService{store: store, logger: logger, now: time.Now}
}

// ListAdmins returns one page of administrators
func (s *adminService) ListAdmins(ctx context.Context, limit int, cursor string) (*AdminPage, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	startKey, err := decodeCursor(AdminsKeyAttr, cursor)
	if err != nil {
		return nil, err
	}

	page, err := s.store.List(ctx, limit, startKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	result := &AdminPage{
		Admins:           make([]*models.AdminAccount, 0, len(page.Items)),
		LastEvaluatedKey: encodeCursor(AdminsKeyAttr, page.LastKey),
	}
	for _, item := range page.Items {
		result.Admins = append(result.Admins, toAdminAccount(item))
	}
	return result, nil
}

// CreateAdmin adds an administrator with a hashed password
func (s *adminService) CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) (*models.AdminAccount, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	account := &models.AdminAccount{
		ID:        strings.TrimSpace(req.ID),
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := account.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	item := &repositories.Item{ID: account.ID, Attributes: adminAttributes(account)}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.WithField("admin_id", account.ID).Info("Admin created")
	return account, nil
}

// GetAdmin returns an administrator
func (s *adminService) GetAdmin(ctx context.Context, id string) (*models.AdminAccount, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return toAdminAccount(item), nil
}

// UpdateAdmin changes the non-empty fields of an administrator
func (s *adminService) UpdateAdmin(ctx context.Context, id string, req *models.UpdateAdminRequest) (*models.AdminAccount, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	attrs := map[string]string{
		"updated_at": s.now().UTC().Format(time.RFC3339),
	}
	if req.Username != "" {
		attrs["username"] = strings.TrimSpace(req.Username)
	}
	if req.Email != "" {
		attrs["email"] = strings.TrimSpace(req.Email)
	}
	if req.Password != "" {
		var account models.AdminAccount
		if err := account.SetPassword(req.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		attrs["password_hash"] = account.PasswordHash
	}

	item, err := s.store.Update(ctx, id, attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}
	return toAdminAccount(item), nil
}

// DeleteAdmin removes an administrator
func (s *adminService) DeleteAdmin(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	s.logger.WithField("admin_id", id).Info("Admin deleted")
	return nil
}

// Authenticate checks an administrator password
func (s *adminService) Authenticate(ctx context.Context, id, password string) (*models.AdminAccount, error) {
	account, err := s.GetAdmin(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !account.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

func adminAttributes(a *models.AdminAccount) map[string]string {
	return map[string]string{
		"username":      a.Username,
		"email":         a.Email,
		"password_hash": a.PasswordHash,
		"created_at":    a.CreatedAt.Format(time.RFC3339),
		"updated_at":    a.UpdatedAt.Format(time.RFC3339),
	}
}

func toAdminAccount(item *repositories.Item) *models.AdminAccount {
	account := &models.AdminAccount{
		ID:           item.ID,
		Username:     item.Attributes["username"],
		Email:        item.Attributes["email"],
		PasswordHash: item.Attributes["password_hash"],
	}
	account.CreatedAt, _ = time.Parse(time.RFC3339, item.Attributes["created_at"])
	account.UpdatedAt, _ = time.Parse(time.RFC3339, item.Attributes["updated_at"])
	return account
}
