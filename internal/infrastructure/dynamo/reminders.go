package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/callme-api/internal/domain"
)

const statusIndex = "status-scheduled_time-index"

// ReminderRepo provides typed DynamoDB operations for the reminders table.
//
// scheduled_time is stored as an RFC3339 UTC string truncated to whole
// seconds (the reminder service guarantees the truncation), so the GSI
// range-key comparison in ListDue is chronological.
type ReminderRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReminderRepo(client *dynamodb.Client, tableName string) *ReminderRepo {
	return &ReminderRepo{client: client, tableName: tableName}
}

func (r *ReminderRepo) Put(ctx context.Context, rem *domain.Reminder) error {
	item, err := attributevalue.MarshalMap(rem)
	if err != nil {
		return fmt.Errorf("marshal reminder: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ReminderRepo) Get(ctx context.Context, reminderID string) (*domain.Reminder, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("reminder_id", reminderID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("reminder %s: %w", reminderID, domain.ErrNotFound)
	}
	var rem domain.Reminder
	if err := attributevalue.UnmarshalMap(out.Item, &rem); err != nil {
		return nil, err
	}
	return &rem, nil
}

// List returns reminders ordered by scheduled_time ascending. With a status
// filter the GSI gives the ordering for free; without one we scan and sort.
func (r *ReminderRepo) List(ctx context.Context, status domain.ReminderStatus) ([]domain.Reminder, error) {
	if status != "" {
		return r.queryByStatus(ctx, status, "")
	}

	var reminders []domain.Reminder
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Reminder
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		reminders = append(reminders, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].ScheduledTime.Before(reminders[j].ScheduledTime)
	})
	return reminders, nil
}

// ListDue returns scheduled reminders whose scheduled_time has reached now.
// The comparison happens in UTC on the GSI range key.
func (r *ReminderRepo) ListDue(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	return r.queryByStatus(ctx, domain.StatusScheduled, now.UTC().Format(time.RFC3339))
}

func (r *ReminderRepo) queryByStatus(ctx context.Context, status domain.ReminderStatus, dueBefore string) ([]domain.Reminder, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(statusIndex),
		KeyConditionExpression: aws.String("#s = :status"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
	}
	if dueBefore != "" {
		input.KeyConditionExpression = aws.String("#s = :status AND scheduled_time <= :now")
		input.ExpressionAttributeValues[":now"] = &types.AttributeValueMemberS{Value: dueBefore}
	}

	var reminders []domain.Reminder
	var startKey map[string]types.AttributeValue
	for {
		input.ExclusiveStartKey = startKey
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		var page []domain.Reminder
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		reminders = append(reminders, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return reminders, nil
}

// Update applies a partial field update and refreshes updated_at.
func (r *ReminderRepo) Update(ctx context.Context, reminderID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339Nano)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("reminder_id", reminderID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

// UpdateStatus flips a reminder to its terminal status. Used by the
// scheduler after a dispatch attempt; also refreshes updated_at.
func (r *ReminderRepo) UpdateStatus(ctx context.Context, reminderID string, status domain.ReminderStatus) error {
	return r.Update(ctx, reminderID, map[string]interface{}{"status": string(status)})
}

func (r *ReminderRepo) Delete(ctx context.Context, reminderID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("reminder_id", reminderID),
	})
	return err
}
