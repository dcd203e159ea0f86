package audit

import "time"

// Event records one consent or locale action taken on a browser session.
type Event struct {
	Timestamp time.Time
	SessionID string
	Action    string
	Category  string
	Decision  string
	Reason    string
}

type Action string

const (
	ActionConsentHydrated  Action = "consent_hydrated"
	ActionConsentAccepted  Action = "consent_accepted_all"
	ActionConsentDeclined  Action = "consent_declined_all"
	ActionConsentConfirmed Action = "consent_confirmed"
	ActionConsentReset     Action = "consent_reset_policy_link"
	ActionConsentRevoked   Action = "consent_revoked"
	ActionRevokeFailed     Action = "consent_revoke_failed"
	ActionGoogleDisabled   Action = "analytics_google_disabled"
	ActionLocaleChanged    Action = "locale_changed"
)

// Decisions recorded per category.
const (
	DecisionGranted = "granted"
	DecisionDenied  = "denied"
	DecisionRevoked = "revoked"
	DecisionFailed  = "failed"
)
