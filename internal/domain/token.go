package domain

import "time"

// TokenEntry maps a donor token back to its donor within one session.
// ExpiresAt is nil for deterministic hashes, which live as long as the session.
type TokenEntry struct {
	Token     string     `json:"token"`
	DonorID   DonorID    `json:"donor_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the entry can no longer be resolved at now.
func (e TokenEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}
