package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/donor-intake-api/internal/domain"
)

// ExamRepo reads physical examination records.
type ExamRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewExamRepo(client *dynamodb.Client, tableName string) *ExamRepo {
	return &ExamRepo{client: client, tableName: tableName}
}

// Latest returns the donor's most recent physical exam, or ErrNotFound.
func (r *ExamRepo) Latest(ctx context.Context, donorID domain.DonorID) (*domain.PhysicalExam, error) {
	var e domain.PhysicalExam
	found, err := queryLatest(ctx, r.client, r.tableName, donorID, &e)
	if err != nil {
		return nil, fmt.Errorf("query physical exam: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("physical exam: %w", domain.ErrNotFound)
	}
	return &e, nil
}

// Put writes a physical exam row with its created_at in sortable form. Rows
// written by the intake process must use the same createdAtLayout.
func (r *ExamRepo) Put(ctx context.Context, e *domain.PhysicalExam) error {
	item, err := historyItem(e, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("marshal physical exam: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put physical exam: %w", err)
	}
	return nil
}
