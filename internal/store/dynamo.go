package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"

	"github.com/example/inquiry-intake/internal/models"
)

// DynamoClient captures the subset of the DynamoDB API used by the store,
// keeping the real client substitutable in tests.
type DynamoClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore persists submissions as single DynamoDB items keyed by
// submission_id. Writes are idempotent for a given submission id, so a
// replayed request with the same id is safe.
type DynamoStore struct {
	logger    zerolog.Logger
	client    DynamoClient
	tableName string
}

// NewDynamoStore constructs a DynamoStore targeting the given table.
func NewDynamoStore(client DynamoClient, tableName string, logger zerolog.Logger) (*DynamoStore, error) {
	if client == nil {
		return nil, errors.New("dynamo store: client dependency is required")
	}
	tableName = strings.TrimSpace(tableName)
	if tableName == "" {
		return nil, errors.New("dynamo store: table name is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	return &DynamoStore{
		logger:    logger,
		client:    client,
		tableName: tableName,
	}, nil
}

// Put writes the submission record. No read path exists; storage is a side
// effect only.
func (s *DynamoStore) Put(ctx context.Context, sub models.Submission) error {
	item, err := attributevalue.MarshalMap(sub)
	if err != nil {
		return fmt.Errorf("dynamo store: marshal submission: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamo store: put item: %w", err)
	}

	s.logger.Debug().Str("submission_id", sub.SubmissionID).Msg("submission persisted")
	return nil
}
