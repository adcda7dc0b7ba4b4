package domain

import "time"

// ScreeningForm is created by the intake process upstream. This service only
// ever moves NeedsReview from false to true.
type ScreeningForm struct {
	ScreeningOwnerID ScreeningOwnerID `json:"screening_owner_id" dynamodbav:"screening_owner_id"`
	NeedsReview      bool             `json:"needs_review" dynamodbav:"needs_review"`
	CreatedAt        time.Time        `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time        `json:"updated" dynamodbav:"updated_at"`
}
