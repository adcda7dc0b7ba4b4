package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/donor-intake-api/internal/domain"
)

// queryLatest reads the newest item for a donor from a table keyed on
// (donor_id, created_at). It reports false when the donor has no items.
func queryLatest(ctx context.Context, client *dynamodb.Client, table string, donorID domain.DonorID, out interface{}) (bool, error) {
	res, err := client.Query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(table),
		KeyConditionExpression:   aws.String("#d = :d"),
		ExpressionAttributeNames: map[string]string{"#d": fieldDonorID},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d": numAttr(int64(donorID)),
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	if len(res.Items) == 0 {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(res.Items[0], out); err != nil {
		return false, err
	}
	return true, nil
}
