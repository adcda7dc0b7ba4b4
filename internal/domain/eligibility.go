package domain

import "time"

// DateLayout is the calendar-date format used for end_date on the wire.
const DateLayout = "2006-01-02"

// EligibilityInterval is a cooldown window during which the donor may not
// donate. Only the most recently created interval for a donor is consulted.
type EligibilityInterval struct {
	EligibilityID string    `json:"id" dynamodbav:"eligibility_id"`
	DonorID       DonorID   `json:"donor_id" dynamodbav:"donor_id"`
	StartDate     time.Time `json:"start_date" dynamodbav:"start_date"`
	EndDate       time.Time `json:"end_date" dynamodbav:"end_date"`
	Status        string    `json:"status,omitempty" dynamodbav:"status"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
}

// EligibilityStatus is the evaluator envelope. EndDate is nil when no
// interval applies or the evaluation failed.
type EligibilityStatus struct {
	IsEligible    bool    `json:"is_eligible"`
	StatusMessage string  `json:"status_message"`
	RemainingDays int     `json:"remaining_days"`
	EndDate       *string `json:"end_date"`
}
