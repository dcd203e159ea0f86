// Package models holds the per-session cookie consent state.
package models

import (
	"regexp"
	"time"
)

// Category names a consent category the visitor can grant.
type Category string

const (
	CategoryAnalysis        Category = "analysis"
	CategoryAnalysisGoogle  Category = "analysis_google"
	CategoryPersonalization Category = "personalization"
)

// Categories lists every category in sweep order.
var Categories = []Category{CategoryAnalysis, CategoryAnalysisGoogle, CategoryPersonalization}

func (c Category) IsValid() bool {
	switch c {
	case CategoryAnalysis, CategoryAnalysisGoogle, CategoryPersonalization:
		return true
	}
	return false
}

// Cookies written or inspected by the consent flow.
const (
	CookieLocale  = "_locale"
	CookieVisited = "_visited"
	CookieDevice  = "_device"
	CookieGA      = "_ga"

	// CookieMaxAge is the lifetime of every first party consent cookie.
	CookieMaxAge = 365 * 24 * time.Hour
)

var gaCookie = regexp.MustCompile(`^_ga($|_)`)

// IsGoogleCookie reports whether name is a Google Analytics cookie (_ga or _ga_*).
func IsGoogleCookie(name string) bool {
	return gaCookie.MatchString(name)
}

// State is the consent state of one browser session.
//
// Granted flags change only through the methods below. Callers write the
// category cookie first and grant only once the write succeeded.
type State struct {
	AnalysisGranted        bool `json:"analysis_granted"`
	AnalysisGoogleGranted  bool `json:"analysis_google_granted"`
	PersonalizationGranted bool `json:"personalization_granted"`

	PendingAnalysis        bool `json:"pending_analysis"`
	PendingAnalysisGoogle  bool `json:"pending_analysis_google"`
	PendingPersonalization bool `json:"pending_personalization"`

	PromptOpen     bool `json:"prompt_open"`
	Customizing    bool `json:"customizing"`
	GoogleDisabled bool `json:"google_disabled"`
	// Stale marks state that can no longer be trusted after a failed sweep.
	Stale bool `json:"stale"`
}

// NewState returns the INITIAL state: nothing granted, drafts opted in.
func NewState() State {
	return State{
		PendingAnalysis:        true,
		PendingAnalysisGoogle:  true,
		PendingPersonalization: true,
	}
}

func (s *State) Granted(c Category) bool {
	switch c {
	case CategoryAnalysis:
		return s.AnalysisGranted
	case CategoryAnalysisGoogle:
		return s.AnalysisGoogleGranted
	case CategoryPersonalization:
		return s.PersonalizationGranted
	}
	return false
}

func (s *State) Pending(c Category) bool {
	switch c {
	case CategoryAnalysis:
		return s.PendingAnalysis
	case CategoryAnalysisGoogle:
		return s.PendingAnalysisGoogle
	case CategoryPersonalization:
		return s.PendingPersonalization
	}
	return false
}

// Grant marks c as granted.
func (s *State) Grant(c Category) {
	s.setGranted(c, true)
}

// Deny marks c as not granted.
func (s *State) Deny(c Category) {
	s.setGranted(c, false)
}

// Revoke clears both the committed flag and the draft toggle of c.
func (s *State) Revoke(c Category) {
	s.setGranted(c, false)
	s.setPending(c, false)
}

// SetPending replaces the three draft toggles.
func (s *State) SetPending(analysis, analysisGoogle, personalization bool) {
	s.PendingAnalysis = analysis
	s.PendingAnalysisGoogle = analysisGoogle
	s.PendingPersonalization = personalization
}

// AnyPending reports whether at least one draft toggle is on.
func (s *State) AnyPending() bool {
	return s.PendingAnalysis || s.PendingAnalysisGoogle || s.PendingPersonalization
}

// Reset revokes every category and closes the prompt.
func (s *State) Reset() {
	for _, c := range Categories {
		s.Revoke(c)
	}
	s.Close()
}

// Close hides the prompt and the customize panel.
func (s *State) Close() {
	s.PromptOpen = false
	s.Customizing = false
}

func (s *State) setGranted(c Category, v bool) {
	switch c {
	case CategoryAnalysis:
		s.AnalysisGranted = v
	case CategoryAnalysisGoogle:
		s.AnalysisGoogleGranted = v
	case CategoryPersonalization:
		s.PersonalizationGranted = v
	}
}

func (s *State) setPending(c Category, v bool) {
	switch c {
	case CategoryAnalysis:
		s.PendingAnalysis = v
	case CategoryAnalysisGoogle:
		s.PendingAnalysisGoogle = v
	case CategoryPersonalization:
		s.PendingPersonalization = v
	}
}
