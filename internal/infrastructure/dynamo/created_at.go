package dynamo

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// createdAtLayout is the encoding of the created_at range key on the donor
// history tables. It is fixed-width and always UTC, so the byte order DynamoDB
// sorts by is chronological order. It is still valid RFC3339, so items decode
// into time.Time fields unchanged.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

func createdAtKey(t time.Time) string {
	return t.UTC().Format(createdAtLayout)
}

// historyItem marshals v and rewrites its created_at with the sortable layout.
func historyItem(v interface{}, createdAt time.Time) (map[string]types.AttributeValue, error) {
	if createdAt.IsZero() {
		return nil, fmt.Errorf("%s is required", fieldCreatedAt)
	}
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, err
	}
	item[fieldCreatedAt] = &types.AttributeValueMemberS{Value: createdAtKey(createdAt)}
	return item, nil
}
