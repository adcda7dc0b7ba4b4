package dynamo

// DynamoDB attribute names used in key conditions and update expressions.
const (
	fieldDonorID          = "donor_id"
	fieldCreatedAt        = "created_at"
	fieldUpdatedAt        = "updated_at"
	fieldEnable           = "enable"
	fieldNeedsReview      = "needs_review"
	fieldScreeningOwnerID = "screening_owner_id"
)
