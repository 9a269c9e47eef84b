package domain

import "time"

// AccessDecision is the outcome of evaluating a record's policy
type AccessDecision string

const (
	AccessAllowed      AccessDecision = "allowed"
	AccessExpired      AccessDecision = "expired"
	AccessLimitReached AccessDecision = "limit_reached"
)

// Evaluate classifies a record at the given instant. Expiry is checked before quota.
func Evaluate(record FileRecord, now time.Time) AccessDecision {
	if record.ExpiresAt != nil && !now.Before(*record.ExpiresAt) {
		return AccessExpired
	}
	if record.MaxDownloads > 0 && record.Downloads >= record.MaxDownloads {
		return AccessLimitReached
	}
	return AccessAllowed
}

// Err returns the sentinel error matching a denied decision, nil when allowed
func (d AccessDecision) Err() error {
	switch d {
	case AccessExpired:
		return ErrFileExpired
	case AccessLimitReached:
		return ErrDownloadLimitReached
	default:
		return nil
	}
}
