package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/deeppurple/emotion-engine/internal/models"
)

const communicationTTL = 90 * 24 * time.Hour

// CommunicationStore persists analyzed communications to DynamoDB.
type CommunicationStore struct {
	client *dynamodb.Client
	table  string
}

func NewCommunicationStore(client *dynamodb.Client, table string) *CommunicationStore {
	return &CommunicationStore{client: client, table: table}
}

func (s *CommunicationStore) SaveCommunication(ctx context.Context, comm models.Communication) error {
	item, err := attributevalue.MarshalMap(comm)
	if err != nil {
		return fmt.Errorf("[DynamoDB] failed to marshal communication: %w", err)
	}
	item["expires_at"] = &types.AttributeValueMemberN{
		Value: fmt.Sprintf("%d", time.Now().Add(communicationTTL).Unix()),
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] failed to store communication: %w", err)
	}

	slog.Info("[DynamoDB] Stored communication",
		slog.String("id", comm.ID),
		slog.String("model", comm.ModelName))
	return nil
}

func (s *CommunicationStore) GetCommunication(ctx context.Context, id string) (*models.Communication, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] failed to get communication: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var comm models.Communication
	if err := attributevalue.UnmarshalMap(out.Item, &comm); err != nil {
		return nil, fmt.Errorf("[DynamoDB] failed to unmarshal communication: %w", err)
	}

	return &comm, nil
}

func (s *CommunicationStore) ListCommunications(ctx context.Context) ([]models.Communication, error) {
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] failed to scan communications: %w", err)
	}

	var comms []models.Communication
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &comms); err != nil {
		return nil, fmt.Errorf("[DynamoDB] failed to unmarshal communications: %w", err)
	}

	return comms, nil
}

func (s *CommunicationStore) DeleteCommunication(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] failed to delete communication: %w", err)
	}
	return nil
}
