package dynamodb

import (
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/repositories"
)

// DynamoFactory creates item stores backed by DynamoDB tables
type DynamoFactory struct {
	client API
	tables map[string]string
	logger *logrus.Logger
}

// NewDynamoFactory maps collection names to table names. Collections without
// an entry use their own name as the table name.
func NewDynamoFactory(client API, tables map[string]string, logger *logrus.Logger) *DynamoFactory {
	return &DynamoFactory{client: client, tables: tables, logger: logger}
}

// CreateItemStore implements repositories.Factory
func (f *DynamoFactory) CreateItemStore(collection, keyAttr string) repositories.ItemStore {
	table := collection
	if name, ok := f.tables[collection]; ok && name != "" {
		table = name
	}
	return NewItemStore(f.client, table, keyAttr, f.logger)
}

// Close implements repositories.Factory
func (f *DynamoFactory) Close() error {
	return nil
}
