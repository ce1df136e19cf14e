package domain

import "time"

// VerificationEntry is a cached verdict of the AI translation check.
type VerificationEntry struct {
	Key         string    `json:"key"`
	Verdict     bool      `json:"verdict"`
	Explanation string    `json:"explanation"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the entry must be ignored at the given instant.
func (e *VerificationEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
