package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/donor-intake-api/internal/domain"
)

// ScreeningRepo patches screening_form rows. Rows are created upstream.
type ScreeningRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewScreeningRepo(client *dynamodb.Client, tableName string) *ScreeningRepo {
	return &ScreeningRepo{client: client, tableName: tableName}
}

// MarkNeedsReview sets needs_review=true and updated_at=at on an existing row.
// The write is unconditional on the current flag, so repeating it only
// refreshes updated_at.
func (r *ScreeningRepo) MarkNeedsReview(ctx context.Context, ownerID domain.ScreeningOwnerID, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldNeedsReview: true,
		fieldUpdatedAt:   at.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	ue.Names["#pk"] = fieldScreeningOwnerID
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       numKey(fieldScreeningOwnerID, int64(ownerID)),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return fmt.Errorf("screening form %s: %w", ownerID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update screening form: %w", err)
	}
	return nil
}
