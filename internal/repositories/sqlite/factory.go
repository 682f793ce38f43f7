package sqlite

import (
	"church-portal-api/internal/database"
	"church-portal-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// SQLiteFactory creates item stores backed by a local SQLite file
type SQLiteFactory struct {
	conn   *database.ConnectionManager
	logger *logrus.Logger
}

// NewSQLiteFactory connects to the database, applying migrations first
func NewSQLiteFactory(config *database.ConnectionConfig) (*SQLiteFactory, error) {
	conn := database.NewConnectionManager(config)
	if err := conn.Connect(); err != nil {
		return nil, err
	}
	return &SQLiteFactory{conn: conn, logger: config.Logger}, nil
}

// CreateItemStore implements repositories.Factory
func (f *SQLiteFactory) CreateItemStore(collection, keyAttr string) repositories.ItemStore {
	return NewItemStore(f.conn.GetDB(), collection, keyAttr, f.logger)
}

// Close implements repositories.Factory
func (f *SQLiteFactory) Close() error {
	return f.conn.Close()
}
