package domain

import "time"

// PhysicalExam is the subset of a physical_examination row the classifier reads.
type PhysicalExam struct {
	PhysicalExamID string    `json:"id" dynamodbav:"physical_exam_id"`
	DonorID        DonorID   `json:"donor_id" dynamodbav:"donor_id"`
	Remarks        string    `json:"remarks" dynamodbav:"remarks"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}

// DeferralKind names the deferral a physician remark implies.
type DeferralKind string

const (
	DeferralNone      DeferralKind = ""
	DeferralTemporary DeferralKind = "temporarily_deferred"
	DeferralPermanent DeferralKind = "permanently_deferred"
	DeferralRefused   DeferralKind = "refused"
)

// deferralRemarks is the complete deferral vocabulary. Matching is exact and
// case-sensitive.
var deferralRemarks = map[string]DeferralKind{
	"Temporarily Deferred": DeferralTemporary,
	"Permanently Deferred": DeferralPermanent,
	"Refused":              DeferralRefused,
}

// DeferralFromRemarks reports whether remarks is a deferral remark and which kind.
func DeferralFromRemarks(remarks string) (DeferralKind, bool) {
	kind, ok := deferralRemarks[remarks]
	return kind, ok
}

// CheckedByRemarks identifies the field the classifier reads.
const CheckedByRemarks = "remarks_field"

// DeferralStatus is the classifier envelope.
type DeferralStatus struct {
	DonorID      DonorID      `json:"donor_id"`
	IsDeferred   bool         `json:"is_deferred"`
	CheckedBy    string       `json:"checked_by"`
	DeferralType DeferralKind `json:"deferral_type,omitempty"`
	Remarks      *string      `json:"remarks,omitempty"`
	ExamDate     *time.Time   `json:"exam_date,omitempty"`
}
