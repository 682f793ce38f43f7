package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/repositories"
)

// ItemStore implements repositories.ItemStore on the shared items table,
// partitioned by collection
type ItemStore struct {
	*BaseRepository
	collection string
	keyAttr    string
}

// NewItemStore creates a store for collection. keyAttr is added to returned
// attributes so records look the same as in DynamoDB.
func NewItemStore(db *sql.DB, collection, keyAttr string, logger *logrus.Logger) *ItemStore {
	return &ItemStore{
		BaseRepository: NewBaseRepository(db, "items", logger),
		collection:     collection,
		keyAttr:        keyAttr,
	}
}

// Create implements repositories.ItemStore
func (s *ItemStore) Create(ctx context.Context, item *repositories.Item) error {
	if err := repositories.ValidateID("create", s.collection, item.ID); err != nil {
		return err
	}

	attrs, err := s.encode(item.Attributes)
	if err != nil {
		return repositories.NewRepositoryError("create", s.collection, item.ID, err)
	}

	now := time.Now().UTC()
	_, err = s.executeExec(ctx, "create",
		`INSERT INTO items (collection, id, attributes, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		s.collection, item.ID, attrs, now, now)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return repositories.DuplicateError(s.collection, item.ID)
		}
		return repositories.NewRepositoryError("create", s.collection, item.ID, err)
	}

	return nil
}

// Get implements repositories.ItemStore
func (s *ItemStore) Get(ctx context.Context, id string) (*repositories.Item, error) {
	if err := repositories.ValidateID("get", s.collection, id); err != nil {
		return nil, err
	}

	var raw string
	err := s.executeQueryRow(ctx, "get",
		`SELECT attributes FROM items WHERE collection = ? AND id = ?`, s.collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NotFoundError(s.collection, id)
		}
		return nil, repositories.NewRepositoryError("get", s.collection, id, err)
	}

	return s.decode(id, raw)
}

// Update implements repositories.ItemStore
func (s *ItemStore) Update(ctx context.Context, id string, attrs map[string]string) (*repositories.Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for k, v := range attrs {
		item.Attributes[k] = v
	}

	encoded, err := s.encode(item.Attributes)
	if err != nil {
		return nil, repositories.NewRepositoryError("update", s.collection, id, err)
	}

	result, err := s.executeExec(ctx, "update",
		`UPDATE items SET attributes = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		encoded, time.Now().UTC(), s.collection, id)
	if err != nil {
		return nil, repositories.NewRepositoryError("update", s.collection, id, err)
	}
	if err := s.checkRowsAffected(result, "update", id); err != nil {
		return nil, err
	}

	return item, nil
}

// Delete implements repositories.ItemStore
func (s *ItemStore) Delete(ctx context.Context, id string) error {
	if err := repositories.ValidateID("delete", s.collection, id); err != nil {
		return err
	}

	result, err := s.executeExec(ctx, "delete",
		`DELETE FROM items WHERE collection = ? AND id = ?`, s.collection, id)
	if err != nil {
		return repositories.NewRepositoryError("delete", s.collection, id, err)
	}

	return s.checkRowsAffected(result, "delete", id)
}

// List implements repositories.ItemStore. Items are ordered by ID.
func (s *ItemStore) List(ctx context.Context, limit int, startKey string) (*repositories.Page, error) {
	rows, err := s.executeQuery(ctx, "list",
		`SELECT id, attributes FROM items WHERE collection = ? AND id > ? ORDER BY id LIMIT ?`,
		s.collection, startKey, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	page := &repositories.Page{Items: []*repositories.Item{}}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, repositories.NewRepositoryError("list", s.collection, "", err)
		}
		item, err := s.decode(id, raw)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", s.collection, "", err)
	}

	if limit > 0 && len(page.Items) == limit {
		page.LastKey = page.Items[len(page.Items)-1].ID
	}
	return page, nil
}

func (s *ItemStore) encode(attrs map[string]string) (string, error) {
	stored := make(map[string]string, len(attrs))
	for k, v := range attrs {
		if k == s.keyAttr {
			continue
		}
		stored[k] = v
	}
	data, err := json.Marshal(stored)
	return string(data), err
}

func (s *ItemStore) decode(id, raw string) (*repositories.Item, error) {
	attrs := map[string]string{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
			return nil, repositories.NewRepositoryError("decode", s.collection, id, err)
		}
	}
	if s.keyAttr != "" {
		attrs[s.keyAttr] = id
	}
	return &repositories.Item{ID: id, Attributes: attrs}, nil
}

// checkRowsAffected reports ErrNotFound when no row matched
func (s *ItemStore) checkRowsAffected(result sql.Result, operation, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return repositories.NewRepositoryError(operation, s.collection, id, err)
	}

	if rowsAffected == 0 {
		return repositories.NotFoundError(s.collection, id)
	}

	return nil
}
