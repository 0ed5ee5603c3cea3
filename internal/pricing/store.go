package pricing

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// recordKind is the partition key for the gold price time series.
const recordKind = "GOLD_G2G"

// Record is one price sample.
type Record struct {
	Kind      string  `json:"kind" dynamodbav:"kind"`
	Timestamp int64   `json:"timestamp" dynamodbav:"timestamp"` // unix millis
	Price     float64 `json:"price" dynamodbav:"price"`
}

// Store is the price history read/write contract.
type Store interface {
	// Latest returns the most recent record, or nil when the series is empty.
	Latest(ctx context.Context) (*Record, error)
	// History returns up to limit recent records in ascending time order.
	History(ctx context.Context, limit int) ([]Record, error)
	// Put appends one record.
	Put(ctx context.Context, rec Record) error
}

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore keeps price history in a DynamoDB table keyed by
// (kind, timestamp).
type DynamoStore struct {
	api   DynamoAPI
	table string
}

func NewDynamoStore(api DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{api: api, table: table}
}

// NewDynamoStoreFromConfig creates a store backed by a real DynamoDB client.
func NewDynamoStoreFromConfig(cfg aws.Config, table string) *DynamoStore {
	return NewDynamoStore(dynamodb.NewFromConfig(cfg), table)
}

func (s *DynamoStore) query(ctx context.Context, limit int) ([]Record, error) {
	out, err := s.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("#k = :k"),
		ExpressionAttributeNames: map[string]string{
			"#k": "kind",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":k": &types.AttributeValueMemberS{Value: recordKind},
		},
		Limit:            aws.Int32(int32(limit)),
		ScanIndexForward: aws.Bool(false), // latest first
	})
	if err != nil {
		return nil, fmt.Errorf("pricing: history query failed: %w", err)
	}

	var records []Record
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, fmt.Errorf("pricing: failed to unmarshal history: %w", err)
	}
	return records, nil
}

func (s *DynamoStore) Latest(ctx context.Context) (*Record, error) {
	records, err := s.query(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (s *DynamoStore) History(ctx context.Context, limit int) ([]Record, error) {
	records, err := s.query(ctx, limit)
	if err != nil {
		return nil, err
	}
	// query returns latest first; charting wants oldest to newest
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (s *DynamoStore) Put(ctx context.Context, rec Record) error {
	rec.Kind = recordKind
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("pricing: failed to marshal record: %w", err)
	}
	if _, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("pricing: put record failed: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and local runs.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Latest(ctx context.Context) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return nil, nil
	}
	rec := s.records[len(s.records)-1]
	return &rec, nil
}

func (s *MemoryStore) History(ctx context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := len(s.records) - limit
	if start < 0 {
		start = 0
	}
	out := make([]Record, len(s.records)-start)
	copy(out, s.records[start:])
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Kind = recordKind
	s.records = append(s.records, rec)
	return nil
}
