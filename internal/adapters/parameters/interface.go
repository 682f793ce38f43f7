package parameters

import "context"

// Store reads configuration parameters from a hierarchical parameter store.
// Implementations return names relative to the requested path, e.g. reading
// "/church-portal/prod/" yields "cognito/user_pool_id".
type Store interface {
	// GetByPath returns every parameter stored under path
	GetByPath(ctx context.Context, path string) (map[string]string, error)
}
