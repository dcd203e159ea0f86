// Package session keeps per-browser consent and locale state on the server.
package session

import (
	"context"
	"fmt"
	"time"

	consentmodels "paraiso/internal/consent/models"
	"paraiso/internal/sentinel"
)

// CookieName carries the opaque session id.
const CookieName = "_session"

// ErrNotFound is returned by stores for unknown or expired sessions.
var ErrNotFound = fmt.Errorf("session %w", sentinel.ErrNotFound)

// Session is the server side view of one browser.
type Session struct {
	ID      string              `json:"id"`
	Consent consentmodels.State `json:"consent"`
	Locale  string              `json:"locale"`
	// MapLocale is resolved once when the session starts and never follows
	// later locale changes.
	MapLocale        string    `json:"map_locale"`
	LocaleGeneration uint64    `json:"locale_generation"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Store persists sessions.
//
// Get returns ErrNotFound when the id is unknown or expired.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
