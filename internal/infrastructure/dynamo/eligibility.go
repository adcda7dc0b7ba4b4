package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/donor-intake-api/internal/domain"
)

// EligibilityRepo reads cooldown intervals from the eligibility table.
type EligibilityRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewEligibilityRepo(client *dynamodb.Client, tableName string) *EligibilityRepo {
	return &EligibilityRepo{client: client, tableName: tableName}
}

// Latest returns the donor's most recently created interval, or ErrNotFound.
func (r *EligibilityRepo) Latest(ctx context.Context, donorID domain.DonorID) (*domain.EligibilityInterval, error) {
	var iv domain.EligibilityInterval
	found, err := queryLatest(ctx, r.client, r.tableName, donorID, &iv)
	if err != nil {
		return nil, fmt.Errorf("query eligibility: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("eligibility interval: %w", domain.ErrNotFound)
	}
	return &iv, nil
}

// Put writes a eligibility interval row with its created_at in sortable form. Rows
// written by the intake process must use the same createdAtLayout.
func (r *EligibilityRepo) Put(ctx context.Context, iv *domain.EligibilityInterval) error {
	item, err := historyItem(iv, iv.CreatedAt)
	if err != nil {
		return fmt.Errorf("marshal eligibility interval: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put eligibility interval: %w", err)
	}
	return nil
}
