package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Analytics,DeviceWriter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"paraiso/internal/audit"
	"paraiso/internal/consent/metrics"
	"paraiso/internal/consent/models"
	"paraiso/internal/locale"
	"paraiso/internal/session"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/cookies"
	"paraiso/pkg/requestcontext"
)

// Analytics starts Google Analytics for a browser by writing its client id cookie.
type Analytics interface {
	Init(ctx context.Context, jar cookies.Jar) error
}

// DeviceWriter writes the first party _device analysis cookie.
type DeviceWriter interface {
	WriteDevice(ctx context.Context, jar cookies.Jar) error
}

// ErrNothingSelected rejects a confirm with every draft toggle off.
var ErrNothingSelected = dErrors.New(dErrors.CodeValidation, "select at least one category or decline all")

// ErrRevokeFailed is returned when a revocation sweep was aborted.
var ErrRevokeFailed = errors.New("cookie revocation failed")

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCookieDomains sets every domain variant Google cookies are swept from.
func WithCookieDomains(domains []string) Option {
	return func(s *Service) {
		s.cookieDomains = append([]string(nil), domains...)
	}
}

// Service drives the consent prompt and applies each category's cookies.
// Every method mutates the session in place; callers persist it.
type Service struct {
	analytics     Analytics
	device        DeviceWriter
	auditor       *audit.Publisher
	metrics       *metrics.Metrics
	logger        *slog.Logger
	cookieDomains []string
}

func New(analytics Analytics, device DeviceWriter, auditor *audit.Publisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		analytics: analytics,
		device:    device,
		auditor:   auditor,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate derives consent from the cookies the browser already holds.
// The GA disable latch outlives re-hydration.
func (s *Service) Hydrate(ctx context.Context, sess *session.Session, jar cookies.Jar, _ *http.Request) {
	disabled := sess.Consent.GoogleDisabled
	st := models.NewState()
	st.GoogleDisabled = disabled

	localeValue, hasLocale := jar.Get(models.CookieLocale)
	if _, ok := locale.FromCookie(localeValue); hasLocale && ok {
		st.Grant(models.CategoryPersonalization)
	}
	_, hasVisited := jar.Get(models.CookieVisited)
	_, hasDevice := jar.Get(models.CookieDevice)
	if hasVisited || hasDevice {
		st.Grant(models.CategoryAnalysis)
	}
	hasGoogle := false
	for _, name := range jar.Names() {
		if models.IsGoogleCookie(name) {
			hasGoogle = true
			break
		}
	}
	if hasGoogle {
		st.Grant(models.CategoryAnalysisGoogle)
	}
	_, hasGA := jar.Get(models.CookieGA)

	st.PromptOpen = !hasVisited && !hasGA && !hasLocale
	sess.Consent = st

	if st.PromptOpen {
		s.incrementPromptShown()
	}
	s.emit(ctx, sess, audit.ActionConsentHydrated, "", decisionOf(st.PromptOpen), "cookies")
}

// AcceptAll grants every category regardless of the draft toggles.
func (s *Service) AcceptAll(ctx context.Context, sess *session.Session, jar cookies.Jar) {
	st := &sess.Consent
	st.SetPending(true, true, true)
	for _, c := range models.Categories {
		s.grant(ctx, sess, jar, c)
	}
	st.Close()
	s.incrementAction(string(audit.ActionConsentAccepted))
	s.emit(ctx, sess, audit.ActionConsentAccepted, "", audit.DecisionGranted, "accept_all")
}

// DeclineAll denies every category and clears the drafts. No cookie is written.
func (s *Service) DeclineAll(ctx context.Context, sess *session.Session) {
	st := &sess.Consent
	for _, c := range models.Categories {
		st.Deny(c)
		s.incrementCategoryChange(c, audit.DecisionDenied)
	}
	st.SetPending(false, false, false)
	st.Close()
	s.incrementAction(string(audit.ActionConsentDeclined))
	s.emit(ctx, sess, audit.ActionConsentDeclined, "", audit.DecisionDenied, "decline_all")
}

// Customize opens the draft panel.
func (s *Service) Customize(_ context.Context, sess *session.Session) {
	sess.Consent.PromptOpen = true
	sess.Consent.Customizing = true
}

func (s *Service) SetPending(_ context.Context, sess *session.Session, analysis, analysisGoogle, personalization bool) {
	sess.Consent.SetPending(analysis, analysisGoogle, personalization)
}

// Confirm commits the draft toggles. A selected category is granted with its
// side effect; an unselected one is denied without touching cookies.
func (s *Service) Confirm(ctx context.Context, sess *session.Session, jar cookies.Jar) error {
	st := &sess.Consent
	if !st.AnyPending() {
		return ErrNothingSelected
	}
	for _, c := range models.Categories {
		if st.Pending(c) {
			s.grant(ctx, sess, jar, c)
			continue
		}
		st.Deny(c)
		s.incrementCategoryChange(c, audit.DecisionDenied)
	}
	st.Close()
	s.incrementAction(string(audit.ActionConsentConfirmed))
	s.emit(ctx, sess, audit.ActionConsentConfirmed, "", audit.DecisionGranted, "customize")
	return nil
}

// FollowPolicyLink resets consent and returns where the visitor goes next.
func (s *Service) FollowPolicyLink(ctx context.Context, sess *session.Session, target models.PolicyTarget) (string, error) {
	path := target.Path()
	if path == "" {
		return "", dErrors.New(dErrors.CodeValidation, "unknown policy target")
	}
	sess.Consent.Reset()
	s.incrementAction(string(audit.ActionConsentReset))
	s.emit(ctx, sess, audit.ActionConsentReset, "", audit.DecisionDenied, string(target))
	return locale.Prefixed(locale.OrDefault(sess.Locale), path), nil
}

// Reopen shows the prompt again from the policy page.
func (s *Service) Reopen(_ context.Context, sess *session.Session) {
	sess.Consent.PromptOpen = true
	sess.Consent.Customizing = false
}

// DisableGoogle sets the GA latch. Only the first call has an effect.
func (s *Service) DisableGoogle(ctx context.Context, sess *session.Session) {
	if sess.Consent.GoogleDisabled {
		return
	}
	sess.Consent.GoogleDisabled = true
	if s.metrics != nil {
		s.metrics.IncrementGoogleDisabled()
	}
	s.emit(ctx, sess, audit.ActionGoogleDisabled, string(models.CategoryAnalysisGoogle), audit.DecisionRevoked, "revocation")
}

// Revoke deletes the cookies of each requested category that is currently
// granted and flips it off. An empty request means every category.
//
// Google cookies are deleted host-only and on every configured domain; a
// failure on one domain is logged and the rest are still tried. Any other
// failure aborts the sweep and marks the state stale.
func (s *Service) Revoke(ctx context.Context, sess *session.Session, jar cookies.Jar, categories []models.Category) error {
	st := &sess.Consent
	requested := requestedSet(categories)

	// Decisions are taken against the flags as they were before the sweep.
	granted := make(map[models.Category]bool, len(models.Categories))
	for _, c := range models.Categories {
		granted[c] = requested[c] && st.Granted(c)
	}

	for _, name := range jar.Names() {
		var err error
		switch {
		case name == models.CookieLocale && granted[models.CategoryPersonalization]:
			err = s.revokeCookie(ctx, sess, jar, models.CategoryPersonalization, name)
		case (name == models.CookieDevice || name == models.CookieVisited) && granted[models.CategoryAnalysis]:
			err = s.revokeCookie(ctx, sess, jar, models.CategoryAnalysis, name)
		case models.IsGoogleCookie(name) && granted[models.CategoryAnalysisGoogle]:
			s.revokeGoogleCookie(ctx, sess, jar, name)
		}
		if err != nil {
			st.Stale = true
			if s.metrics != nil {
				s.metrics.IncrementRevokeFailure()
			}
			s.logger.ErrorContext(ctx, "cookie revocation aborted",
				"error", err,
				"cookie", name,
				"request_id", requestcontext.RequestID(ctx),
			)
			s.emit(ctx, sess, audit.ActionRevokeFailed, "", audit.DecisionFailed, err.Error())
			return fmt.Errorf("%w: %w", ErrRevokeFailed, err)
		}
	}

	// Granted categories whose cookies were already gone still flip off.
	for _, c := range models.Categories {
		if granted[c] && st.Granted(c) {
			s.markRevoked(ctx, sess, c)
			if c == models.CategoryAnalysisGoogle {
				s.DisableGoogle(ctx, sess)
			}
		}
	}
	return nil
}

func (s *Service) revokeCookie(ctx context.Context, sess *session.Session, jar cookies.Jar, c models.Category, name string) error {
	if err := jar.Delete(name, ""); err != nil {
		return err
	}
	if sess.Consent.Granted(c) {
		s.markRevoked(ctx, sess, c)
	}
	return nil
}

func (s *Service) revokeGoogleCookie(ctx context.Context, sess *session.Session, jar cookies.Jar, name string) {
	if sess.Consent.Granted(models.CategoryAnalysisGoogle) {
		s.markRevoked(ctx, sess, models.CategoryAnalysisGoogle)
	}
	s.DisableGoogle(ctx, sess)

	for _, domain := range append([]string{""}, s.cookieDomains...) {
		if err := jar.Delete(name, domain); err != nil {
			s.logger.WarnContext(ctx, "failed to delete google cookie on domain",
				"error", err,
				"cookie", name,
				"domain", domain,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
}

func (s *Service) markRevoked(ctx context.Context, sess *session.Session, c models.Category) {
	sess.Consent.Revoke(c)
	s.incrementCategoryChange(c, audit.DecisionRevoked)
	s.emit(ctx, sess, audit.ActionConsentRevoked, string(c), audit.DecisionRevoked, "policy_page")
}

// grant runs the category side effect and only then sets the flag. A failed
// side effect leaves the category denied.
func (s *Service) grant(ctx context.Context, sess *session.Session, jar cookies.Jar, c models.Category) {
	var err error
	switch c {
	case models.CategoryAnalysis:
		err = s.device.WriteDevice(ctx, jar)
	case models.CategoryAnalysisGoogle:
		err = s.analytics.Init(ctx, jar)
	case models.CategoryPersonalization:
		err = jar.Set(models.CookieLocale, locale.OrDefault(sess.Locale).String(), models.CookieMaxAge)
	}
	if err != nil {
		sess.Consent.Deny(c)
		s.incrementCategoryChange(c, audit.DecisionFailed)
		s.logger.WarnContext(ctx, "consent side effect failed, category left denied",
			"error", err,
			"category", string(c),
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	sess.Consent.Grant(c)
	s.incrementCategoryChange(c, audit.DecisionGranted)
}

func requestedSet(categories []models.Category) map[models.Category]bool {
	set := make(map[models.Category]bool, len(models.Categories))
	if len(categories) == 0 {
		for _, c := range models.Categories {
			set[c] = true
		}
		return set
	}
	for _, c := range categories {
		set[models.Category(strings.ToLower(string(c)))] = true
	}
	return set
}

func decisionOf(promptOpen bool) string {
	if promptOpen {
		return "prompt"
	}
	return "restored"
}

func (s *Service) emit(ctx context.Context, sess *session.Session, action audit.Action, category, decision, reason string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		SessionID: sess.ID,
		Action:    string(action),
		Category:  category,
		Decision:  decision,
		Reason:    reason,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit consent audit event",
			"error", err,
			"action", string(action),
		)
	}
}

func (s *Service) incrementAction(action string) {
	if s.metrics != nil {
		s.metrics.IncrementAction(action)
	}
}

func (s *Service) incrementCategoryChange(c models.Category, decision string) {
	if s.metrics != nil {
		s.metrics.IncrementCategoryChange(string(c), decision)
	}
}

func (s *Service) incrementPromptShown() {
	if s.metrics != nil {
		s.metrics.IncrementPromptShown()
	}
}
