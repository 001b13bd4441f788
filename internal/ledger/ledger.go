// Package ledger implements the optional Run Ledger (§12.5): a DynamoDB
// transition log recording the Pipeline Runner's state-machine moves
// (§4.K) for external observability. It stores no brand content, only
// run_id/from/to/at/detail — the Non-goal of persistent multi-tenant
// brand state is untouched.
package ledger

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
)

// Ledger persists RunTransition records.
type Ledger struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewLedger creates a Ledger backed by tableName.
func NewLedger(client *dynamodb.Client, tableName string, logger *zap.Logger) *Ledger {
	return &Ledger{client: client, tableName: tableName, logger: logger}
}

// RecordTransition appends one state-machine transition to the ledger.
// Failures are logged and swallowed — the ledger is observability, never
// load-bearing for the pipeline itself.
func (l *Ledger) RecordTransition(ctx context.Context, t domain.RunTransition) {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		l.logger.Warn("ledger: failed to marshal transition", zap.Error(err))
		return
	}
	item["sort_key"] = &types.AttributeValueMemberS{Value: fmt.Sprintf("%s#%s", t.At.Format("20060102T150405.000000000Z07:00"), t.To)}

	_, err = l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &l.tableName,
		Item:      item,
	})
	if err != nil {
		l.logger.Warn("ledger: failed to persist transition", zap.String("run_id", t.RunID), zap.Error(err))
	}
}

// ListTransitions returns every recorded transition for runID, in
// insertion order.
func (l *Ledger) ListTransitions(ctx context.Context, runID string) ([]domain.RunTransition, error) {
	out, err := l.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &l.tableName,
		KeyConditionExpression: stringPtr("run_id = :rid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":rid": &types.AttributeValueMemberS{Value: runID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query transitions for run %s: %w", runID, err)
	}

	transitions := make([]domain.RunTransition, 0, len(out.Items))
	for _, item := range out.Items {
		var t domain.RunTransition
		if err := attributevalue.UnmarshalMap(item, &t); err != nil {
			continue
		}
		transitions = append(transitions, t)
	}
	return transitions, nil
}

func stringPtr(s string) *string { return &s }
