package parameters

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SSMStore reads parameters from AWS Systems Manager Parameter Store
type SSMStore struct {
	client ssm.GetParametersByPathAPIClient
}

// NewSSMStore creates a store backed by the given SSM client
func NewSSMStore(client ssm.GetParametersByPathAPIClient) *SSMStore {
	return &SSMStore{client: client}
}

// GetByPath implements Store.GetByPath. SecureString values are decrypted.
func (s *SSMStore) GetByPath(ctx context.Context, path string) (map[string]string, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, NewParameterError("get_by_path", path, ErrInvalidPath, false)
	}
	prefix := strings.TrimRight(path, "/") + "/"

	paginator := ssm.NewGetParametersByPathPaginator(s.client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	values := make(map[string]string)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify("get_by_path", prefix, err)
		}
		for _, p := range page.Parameters {
			name := strings.TrimPrefix(aws.ToString(p.Name), prefix)
			values[name] = aws.ToString(p.Value)
		}
	}

	return values, nil
}
