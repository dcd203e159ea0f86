// Package tracking writes first party analysis cookies and forwards
// Google Analytics hits for visitors who consented to them.
package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	consentmodels "paraiso/internal/consent/models"
	"paraiso/internal/session"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/cookies"
	"paraiso/pkg/platform/middleware/device"
	pstrings "paraiso/pkg/platform/strings"
	"paraiso/pkg/requestcontext"
	"paraiso/pkg/validation"
)

const unknownResolution = "unknown"

var (
	validPageID     = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)
	validResolution = regexp.MustCompile(`^[0-9]{2,5}x[0-9]{2,5}$`)
)

// DeviceInfo is the payload of the _device cookie.
type DeviceInfo struct {
	DeviceType       string `json:"deviceType"`
	ScreenResolution string `json:"screenResolution"`
	Language         string `json:"language"`
}

// EncodeDevice serializes info into a cookie safe value.
func EncodeDevice(info DeviceInfo) (string, error) {
	raw, err := json.Marshal(info)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(raw)), nil
}

func DecodeDevice(value string) (DeviceInfo, error) {
	var info DeviceInfo
	raw, err := url.QueryUnescape(value)
	if err != nil {
		return info, err
	}
	err = json.Unmarshal([]byte(raw), &info)
	return info, err
}

// Recorder maintains the _visited and _device cookies.
type Recorder struct {
	logger  *slog.Logger
	metrics *Metrics
}

func NewRecorder(logger *slog.Logger, metrics *Metrics) *Recorder {
	return &Recorder{logger: logger, metrics: metrics}
}

// WriteDevice writes _device from the request metadata. A screen resolution
// reported earlier is kept.
func (r *Recorder) WriteDevice(ctx context.Context, jar cookies.Jar) error {
	info := DeviceInfo{
		DeviceType:       requestcontext.DeviceType(ctx),
		ScreenResolution: unknownResolution,
		Language:         requestcontext.BrowserLanguage(ctx),
	}
	if info.DeviceType == "" {
		info.DeviceType = device.Classify(requestcontext.UserAgent(ctx))
	}
	if existing, ok := jar.Get(consentmodels.CookieDevice); ok {
		if prev, err := DecodeDevice(existing); err == nil && prev.ScreenResolution != "" {
			info.ScreenResolution = prev.ScreenResolution
		}
	}
	return r.write(jar, info)
}

// ReportScreen stores the client reported screen size. Without analysis
// consent nothing is written and recorded is false.
func (r *Recorder) ReportScreen(ctx context.Context, sess *session.Session, jar cookies.Jar, resolution string) (recorded bool, err error) {
	resolution = strings.ToLower(strings.TrimSpace(resolution))
	if !validResolution.MatchString(resolution) {
		return false, dErrors.New(dErrors.CodeValidation, "screen_resolution must look like 1920x1080")
	}
	if !sess.Consent.AnalysisGranted {
		return false, nil
	}
	if err := r.WriteDevice(ctx, jar); err != nil {
		return false, err
	}
	value, _ := jar.Get(consentmodels.CookieDevice)
	info, err := DecodeDevice(value)
	if err != nil {
		return false, fmt.Errorf("decode device cookie: %w", err)
	}
	info.ScreenResolution = resolution
	if err := r.write(jar, info); err != nil {
		return false, err
	}
	if r.metrics != nil {
		r.metrics.IncrementDeviceReport()
	}
	return true, nil
}

// RecordVisit appends page to _visited when analysis is granted.
// The list keeps the most recent distinct pages.
func (r *Recorder) RecordVisit(ctx context.Context, sess *session.Session, jar cookies.Jar, page string) (bool, error) {
	if !sess.Consent.AnalysisGranted {
		return false, nil
	}
	if !validPageID.MatchString(page) {
		return false, dErrors.New(dErrors.CodeValidation, "invalid page id")
	}
	current, _ := jar.Get(consentmodels.CookieVisited)
	pages, added := pstrings.AppendUnique(pstrings.SplitList(current, ","), page)
	if !added {
		return false, nil
	}
	if len(pages) > validation.MaxVisitedEntries {
		pages = pages[len(pages)-validation.MaxVisitedEntries:]
	}
	if err := jar.Set(consentmodels.CookieVisited, strings.Join(pages, ","), consentmodels.CookieMaxAge); err != nil {
		r.logger.WarnContext(ctx, "failed to write visited cookie",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return false, err
	}
	if r.metrics != nil {
		r.metrics.IncrementVisit(page)
	}
	return true, nil
}

func (r *Recorder) write(jar cookies.Jar, info DeviceInfo) error {
	value, err := EncodeDevice(info)
	if err != nil {
		return fmt.Errorf("encode device cookie: %w", err)
	}
	return jar.Set(consentmodels.CookieDevice, value, consentmodels.CookieMaxAge)
}
