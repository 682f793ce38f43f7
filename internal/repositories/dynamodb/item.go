package dynamodb

import (
	"context"
	"errors"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/repositories"
)

// API is the subset of the DynamoDB client used by ItemStore
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// ItemStore implements repositories.ItemStore on a DynamoDB table whose
// partition key is the string attribute keyAttr
type ItemStore struct {
	client  API
	table   string
	keyAttr string
	logger  *logrus.Logger
}

// NewItemStore creates a store for table
func NewItemStore(client API, table, keyAttr string, logger *logrus.Logger) *ItemStore {
	if logger == nil {
		logger = logrus.New()
	}
	return &ItemStore{client: client, table: table, keyAttr: keyAttr, logger: logger}
}

func (s *ItemStore) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		s.keyAttr: &types.AttributeValueMemberS{Value: id},
	}
}

// Create implements repositories.ItemStore
func (s *ItemStore) Create(ctx context.Context, item *repositories.Item) error {
	if err := repositories.ValidateID("create", s.table, item.ID); err != nil {
		return err
	}

	attrs := make(map[string]string, len(item.Attributes)+1)
	for k, v := range item.Attributes {
		attrs[k] = v
	}
	attrs[s.keyAttr] = item.ID

	av, err := attributevalue.MarshalMap(attrs)
	if err != nil {
		return repositories.NewRepositoryError("create", s.table, item.ID, err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(s.keyAttr))).
		Build()
	if err != nil {
		return repositories.NewRepositoryError("create", s.table, item.ID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.table),
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return repositories.DuplicateError(s.table, item.ID)
		}
		s.logger.WithError(err).WithFields(logrus.Fields{"table": s.table, "id": item.ID}).Error("PutItem failed")
		return repositories.NewRepositoryError("create", s.table, item.ID, err)
	}

	return nil
}

// Get implements repositories.ItemStore
func (s *ItemStore) Get(ctx context.Context, id string) (*repositories.Item, error) {
	if err := repositories.ValidateID("get", s.table, id); err != nil {
		return nil, err
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, repositories.NewRepositoryError("get", s.table, id, err)
	}
	if len(out.Item) == 0 {
		return nil, repositories.NotFoundError(s.table, id)
	}

	return s.decode(id, out.Item)
}

// Update implements repositories.ItemStore
func (s *ItemStore) Update(ctx context.Context, id string, attrs map[string]string) (*repositories.Item, error) {
	if err := repositories.ValidateID("update", s.table, id); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(attrs))
	for k := range attrs {
		if k != s.keyAttr {
			names = append(names, k)
		}
	}
	if len(names) == 0 {
		return s.Get(ctx, id)
	}
	sort.Strings(names)

	var update expression.UpdateBuilder
	for _, name := range names {
		update = update.Set(expression.Name(name), expression.Value(attrs[name]))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name(s.keyAttr))).
		Build()
	if err != nil {
		return nil, repositories.NewRepositoryError("update", s.table, id, err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, repositories.NotFoundError(s.table, id)
		}
		return nil, repositories.NewRepositoryError("update", s.table, id, err)
	}

	return s.decode(id, out.Attributes)
}

// Delete implements repositories.ItemStore
func (s *ItemStore) Delete(ctx context.Context, id string) error {
	if err := repositories.ValidateID("delete", s.table, id); err != nil {
		return err
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(s.keyAttr))).
		Build()
	if err != nil {
		return repositories.NewRepositoryError("delete", s.table, id, err)
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(s.table),
		Key:                      s.key(id),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return repositories.NotFoundError(s.table, id)
		}
		return repositories.NewRepositoryError("delete", s.table, id, err)
	}

	return nil
}

// List implements repositories.ItemStore with a table scan
func (s *ItemStore) List(ctx context.Context, limit int, startKey string) (*repositories.Page, error) {
	in := &dynamodb.ScanInput{
		TableName: aws.String(s.table),
		Limit:     aws.Int32(int32(limit)),
	}
	if startKey != "" {
		in.ExclusiveStartKey = s.key(startKey)
	}

	out, err := s.client.Scan(ctx, in)
	if err != nil {
		return nil, repositories.NewRepositoryError("list", s.table, "", err)
	}

	var records []map[string]string
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, repositories.NewRepositoryError("list", s.table, "", err)
	}

	page := &repositories.Page{Items: make([]*repositories.Item, 0, len(records))}
	for _, attrs := range records {
		page.Items = append(page.Items, &repositories.Item{ID: attrs[s.keyAttr], Attributes: attrs})
	}

	if last, ok := out.LastEvaluatedKey[s.keyAttr].(*types.AttributeValueMemberS); ok {
		page.LastKey = last.Value
	}
	return page, nil
}

func (s *ItemStore) decode(id string, av map[string]types.AttributeValue) (*repositories.Item, error) {
	attrs := map[string]string{}
	if err := attributevalue.UnmarshalMap(av, &attrs); err != nil {
		return nil, repositories.NewRepositoryError("decode", s.table, id, err)
	}
	return &repositories.Item{ID: id, Attributes: attrs}, nil
}
