package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DefaultMonthlyRunLimit is the flat run quota every caller gets, per
// period (replacing the reference backend's subscription-tier table —
// this pipeline has no tenancy/tier concept to key off of).
const DefaultMonthlyRunLimit = 50

// DynamoQuotaStore is a DynamoDB-backed QuotaStore keyed by
// (caller_id, period), using an atomic conditional decrement so
// concurrent requests from the same caller cannot race past the limit.
type DynamoQuotaStore struct {
	client      *dynamodb.Client
	tableName   string
	monthlyLimit int
}

// NewDynamoQuotaStore creates a DynamoQuotaStore. monthlyLimit <= 0 uses
// DefaultMonthlyRunLimit.
func NewDynamoQuotaStore(client *dynamodb.Client, tableName string, monthlyLimit int) *DynamoQuotaStore {
	if monthlyLimit <= 0 {
		monthlyLimit = DefaultMonthlyRunLimit
	}
	return &DynamoQuotaStore{client: client, tableName: tableName, monthlyLimit: monthlyLimit}
}

func currentPeriod() string {
	return time.Now().UTC().Format("2006-01")
}

// CheckAndIncrement atomically decrements the caller's remaining quota
// for the current period, creating the record with a full allowance on
// first use. It returns ErrQuotaExceeded when the conditional update is
// rejected because quota_remaining is already zero.
func (s *DynamoQuotaStore) CheckAndIncrement(callerID string) error {
	ctx := context.Background()
	period := currentPeriod()

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"caller_id": &types.AttributeValueMemberS{Value: callerID},
			"period":    &types.AttributeValueMemberS{Value: period},
		},
		UpdateExpression: aws.String("SET quota_remaining = if_not_exists(quota_remaining, :initial) - :one, runs_started = if_not_exists(runs_started, :zero) + :one, monthly_limit = if_not_exists(monthly_limit, :initial)"),
		ConditionExpression: aws.String("attribute_not_exists(quota_remaining) OR quota_remaining > :zero"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":initial": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", s.monthlyLimit)},
			":one":     &types.AttributeValueMemberN{Value: "1"},
			":zero":    &types.AttributeValueMemberN{Value: "0"},
		},
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return ErrQuotaExceeded
		}
		return fmt.Errorf("check and decrement run quota: %w", err)
	}
	return nil
}

// InMemoryQuotaStore is a process-local QuotaStore for local development
// (SKIP_AUTH=true paths and tests), mirroring DynamoQuotaStore's
// semantics without any external dependency.
type InMemoryQuotaStore struct {
	mu           sync.Mutex
	monthlyLimit int
	remaining    map[string]int
	period       map[string]string
}

// NewInMemoryQuotaStore creates an InMemoryQuotaStore. monthlyLimit <= 0
// uses DefaultMonthlyRunLimit.
func NewInMemoryQuotaStore(monthlyLimit int) *InMemoryQuotaStore {
	if monthlyLimit <= 0 {
		monthlyLimit = DefaultMonthlyRunLimit
	}
	return &InMemoryQuotaStore{
		monthlyLimit: monthlyLimit,
		remaining:    make(map[string]int),
		period:       make(map[string]string),
	}
}

// CheckAndIncrement implements QuotaStore.
func (s *InMemoryQuotaStore) CheckAndIncrement(callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	period := currentPeriod()
	if s.period[callerID] != period {
		s.period[callerID] = period
		s.remaining[callerID] = s.monthlyLimit
	}
	if s.remaining[callerID] <= 0 {
		return ErrQuotaExceeded
	}
	s.remaining[callerID]--
	return nil
}
