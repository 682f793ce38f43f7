package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DirectoryUser is a record in the public users directory
type DirectoryUser struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// CreateDirectoryUserRequest adds a directory record
type CreateDirectoryUserRequest struct {
	UserID string `json:"userId" validate:"notblank"`
	Name   string `json:"name"`
	Email  string `json:"email" validate:"omitempty,email"`
}

func (CreateDirectoryUserRequest) ValidationMessage(field string) string {
	if field == "userId" {
		return "userId is required"
	}
	return ""
}

// UpdateDirectoryUserRequest changes the non-empty fields of a record
type UpdateDirectoryUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

// Check requires at least one field to change
func (r UpdateDirectoryUserRequest) Check() error {
	if strings.TrimSpace(r.Name) == "" && strings.TrimSpace(r.Email) == "" {
		return NewValidationError("name", "Nothing to update: provide name or email")
	}
	return nil
}

// AdminAccount is an administrator record. The password is only ever held
// as a bcrypt hash.
type AdminAccount struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SetPassword hashes and stores password
func (a *AdminAccount) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash
func (a *AdminAccount) CheckPassword(password string) bool {
	if a.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// CreateAdminRequest adds an administrator
type CreateAdminRequest struct {
	ID       string `json:"id" validate:"notblank"`
	Username string `json:"username" validate:"notblank,max=128"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8,max=72"`
}

// UpdateAdminRequest changes the non-empty fields of an administrator
type UpdateAdminRequest struct {
	Username string `json:"username" validate:"omitempty,max=128"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}

// Check requires at least one field to change
func (r UpdateAdminRequest) Check() error {
	if r.Username == "" && r.Email == "" && r.Password == "" {
		return NewValidationError("username", "Nothing to update: provide username, email, or password")
	}
	return nil
}

// AdminLoginRequest carries administrator credentials
type AdminLoginRequest struct {
	ID       string `json:"id" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

func (AdminLoginRequest) ValidationMessage(string) string {
	return "id and password are required"
}
