package domain

// Defaults applied when a donor has no record of the relevant kind. Both lean
// permissive for missing data; store errors are handled separately by each
// service and are not governed by these values.
const (
	DefaultEligibleWithoutInterval = true
	DefaultDeferredWithoutExam     = false
)

// Policy holds the no-record defaults in force for a running service.
type Policy struct {
	EligibleWithoutInterval bool
	DeferredWithoutExam     bool
}

// DefaultPolicy returns the policy with the package defaults.
func DefaultPolicy() Policy {
	return Policy{
		EligibleWithoutInterval: DefaultEligibleWithoutInterval,
		DeferredWithoutExam:     DefaultDeferredWithoutExam,
	}
}
