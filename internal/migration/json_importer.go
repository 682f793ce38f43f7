package migration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
	"church-portal-api/internal/repositories"
	"church-portal-api/internal/services"
)

// JSONImporter seeds the key-value stores from JSON exports. It reads
// users.json and admins.json from a directory; a missing file is skipped.
type JSONImporter struct {
	directory services.DirectoryService
	admins    services.AdminService
	logger    *logrus.Logger
	jsonPath  string
}

// NewJSONImporter creates a new JSON importer
func NewJSONImporter(directory services.DirectoryService, admins services.AdminService, jsonPath string, logger *logrus.Logger) *JSONImporter {
	if logger == nil {
		logger = logrus.New()
	}
	return &JSONImporter{directory: directory, admins: admins, logger: logger, jsonPath: jsonPath}
}

// ImportResult summarizes an import run
type ImportResult struct {
	UsersImported  int
	AdminsImported int
	Skipped        int
	Warnings       []string
}

// Import loads every record, skipping records that already exist or fail
// validation. Only unreadable files abort the run.
func (m *JSONImporter) Import(ctx context.Context) (*ImportResult, error) {
	m.logger.WithField("path", m.jsonPath).Info("Starting JSON import...")
	result := &ImportResult{Warnings: make([]string, 0)}

	var users []models.CreateDirectoryUserRequest
	found, err := m.readFile("users.json", &users)
	if err != nil {
		return result, err
	}
	if found {
		for i := range users {
			_, err := m.directory.CreateUser(ctx, &users[i])
			if m.skip(result, "user", users[i].UserID, err) {
				continue
			}
			result.UsersImported++
		}
	}

	var admins []models.CreateAdminRequest
	found, err = m.readFile("admins.json", &admins)
	if err != nil {
		return result, err
	}
	if found {
		for i := range admins {
			_, err := m.admins.CreateAdmin(ctx, &admins[i])
			if m.skip(result, "admin", admins[i].ID, err) {
				continue
			}
			result.AdminsImported++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"users":   result.UsersImported,
		"admins":  result.AdminsImported,
		"skipped": result.Skipped,
	}).Info("JSON import completed")
	return result, nil
}

func (m *JSONImporter) readFile(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(m.jsonPath, name))
	if errors.Is(err, os.ErrNotExist) {
		m.logger.WithField("file", name).Warn("JSON file not found, skipping")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return true, nil
}

// skip records a failed record and reports whether err was non-nil
func (m *JSONImporter) skip(result *ImportResult, kind, id string, err error) bool {
	if err == nil {
		return false
	}
	reason := "invalid record"
	if repositories.IsDuplicate(err) {
		reason = "already exists"
	}
	m.logger.WithError(err).WithFields(logrus.Fields{
		"kind": kind,
		"id":   id,
	}).Warn("Skipping record")

	result.Skipped++
	result.Warnings = append(result.Warnings, fmt.Sprintf("%s %q: %s", kind, id, reason))
	return true
}
