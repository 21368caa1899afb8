package db

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"journalgrader/internal/logger"
	"journalgrader/models"
)

// DynamoPutter is the slice of the DynamoDB client the audit store uses.
type DynamoPutter interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoAuditStore writes one item per submission, keyed by submission_id.
type DynamoAuditStore struct {
	client DynamoPutter
	table  string
	log    *logger.Logger
}

func NewDynamoAuditStore(awsCfg aws.Config, endpoint, table string, log *logger.Logger) *DynamoAuditStore {
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewDynamoAuditStoreWithClient(client, table, log)
}

func NewDynamoAuditStoreWithClient(client DynamoPutter, table string, log *logger.Logger) *DynamoAuditStore {
	return &DynamoAuditStore{client: client, table: table, log: log.With("store", "DynamoAuditStore", "table", table)}
}

func (s *DynamoAuditStore) RecordSubmission(ctx context.Context, record models.SubmissionRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal submission record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(submission_id)"),
	})
	if err != nil {
		return fmt.Errorf("put submission record: %w", err)
	}
	s.log.Debug("Submission recorded", "submission_id", record.SubmissionID)
	return nil
}
