package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	consentmodels "paraiso/internal/consent/models"
	"paraiso/internal/platform/config"
	"paraiso/internal/session"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/cookies"
	"paraiso/pkg/requestcontext"
)

const (
	gaCookieMaxAge = 2 * 365 * 24 * time.Hour
	gaSendTimeout  = 5 * time.Second
	gaQueueSize    = 256

	EventPageView    = "page_view"
	EventButtonClick = "button_click"
)

type gaEvent struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

type gaPayload struct {
	ClientID string    `json:"client_id"`
	Events   []gaEvent `json:"events"`
}

// GATracker sends GA4 Measurement Protocol hits from the server.
type GATracker struct {
	cfg     config.Analytics
	client  *http.Client
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time

	hits   chan gaPayload
	wg     sync.WaitGroup
	closed sync.Once
}

type GAOption func(*GATracker)

func WithHTTPClient(c *http.Client) GAOption {
	return func(t *GATracker) {
		t.client = c
	}
}

func WithGAClock(now func() time.Time) GAOption {
	return func(t *GATracker) {
		t.now = now
	}
}

// NewGATracker starts the background sender. Call Close on shutdown.
func NewGATracker(cfg config.Analytics, logger *slog.Logger, metrics *Metrics, opts ...GAOption) *GATracker {
	t := &GATracker{
		cfg:     cfg,
		client:  &http.Client{Timeout: gaSendTimeout},
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		hits:    make(chan gaPayload, gaQueueSize),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.wg.Add(1)
	go t.run()
	return t
}

// Init starts Google Analytics for the browser by issuing a _ga client id.
// An existing client id is kept.
func (t *GATracker) Init(_ context.Context, jar cookies.Jar) error {
	if t.cfg.MeasurementID == "" {
		return dErrors.New(dErrors.CodeMisconfigured, "google analytics measurement id is not configured")
	}
	if _, ok := jar.Get(consentmodels.CookieGA); ok {
		return nil
	}
	value := fmt.Sprintf("GA1.1.%d.%d", rand.Uint32(), t.now().Unix())
	return jar.Set(consentmodels.CookieGA, value, gaCookieMaxAge)
}

// PageView records a page view for page.
func (t *GATracker) PageView(ctx context.Context, sess *session.Session, jar cookies.Jar, page string) bool {
	return t.enqueue(ctx, sess, jar, gaEvent{
		Name: EventPageView,
		Params: map[string]any{
			"page_location": "/" + page,
			"page_title":    page,
			"language":      sess.Locale,
		},
	})
}

// ButtonClick records a press of the named button.
func (t *GATracker) ButtonClick(ctx context.Context, sess *session.Session, jar cookies.Jar, button string) bool {
	return t.enqueue(ctx, sess, jar, gaEvent{
		Name: EventButtonClick,
		Params: map[string]any{
			"category": "Botón",
			"action":   "Pulsado " + button,
			"label":    button,
		},
	})
}

// enqueue queues a hit when Google Analytics is granted, not disabled and
// the browser holds a client id. It never blocks.
func (t *GATracker) enqueue(ctx context.Context, sess *session.Session, jar cookies.Jar, event gaEvent) bool {
	if !sess.Consent.AnalysisGoogleGranted || sess.Consent.GoogleDisabled {
		return false
	}
	if t.cfg.MeasurementID == "" || t.cfg.APISecret == "" {
		return false
	}
	raw, ok := jar.Get(consentmodels.CookieGA)
	if !ok {
		return false
	}
	clientID, ok := ClientID(raw)
	if !ok {
		return false
	}

	select {
	case t.hits <- gaPayload{ClientID: clientID, Events: []gaEvent{event}}:
		return true
	default:
		t.count(event.Name, "dropped")
		t.logger.WarnContext(ctx, "analytics queue full, hit dropped",
			"event", event.Name,
			"request_id", requestcontext.RequestID(ctx),
		)
		return false
	}
}

// ClientID extracts "<random>.<timestamp>" from a _ga cookie value.
func ClientID(cookieValue string) (string, bool) {
	parts := strings.Split(cookieValue, ".")
	if len(parts) < 4 || parts[0] != "GA1" {
		return "", false
	}
	return parts[len(parts)-2] + "." + parts[len(parts)-1], true
}

func (t *GATracker) run() {
	defer t.wg.Done()
	for payload := range t.hits {
		name := payload.Events[0].Name
		if err := t.send(payload); err != nil {
			t.count(name, "failed")
			t.logger.Warn("failed to send analytics hit",
				"error", err,
				"event", name,
			)
			continue
		}
		t.count(name, "sent")
	}
}

func (t *GATracker) send(payload gaPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	q := url.Values{}
	q.Set("measurement_id", t.cfg.MeasurementID)
	q.Set("api_secret", t.cfg.APISecret)

	ctx, cancel := context.WithTimeout(context.Background(), gaSendTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.Endpoint+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("measurement protocol returned %d", resp.StatusCode)
	}
	return nil
}

func (t *GATracker) count(event, outcome string) {
	if t.metrics != nil {
		t.metrics.IncrementGAHit(event, outcome)
	}
}

// Close stops accepting hits and waits for queued ones to be sent.
func (t *GATracker) Close() {
	t.closed.Do(func() {
		close(t.hits)
		t.wg.Wait()
	})
}
