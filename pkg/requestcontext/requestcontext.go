// Package requestcontext carries request-scoped values (request id, client
// metadata, device type, session id and the request clock) through context.
package requestcontext

import (
	"context"
	"time"
)

type (
	contextKeyRequestID  struct{}
	contextKeyClientIP   struct{}
	contextKeyUserAgent  struct{}
	contextKeyDeviceType struct{}
	contextKeyLanguage   struct{}
	contextKeySessionID  struct{}
	contextKeyNow        struct{}
)

// WithRequestID stores the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, requestID)
}

// RequestID returns the request id or "".
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyRequestID{}).(string)
	return v
}

// WithClientMetadata stores the client IP and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIP)
	return context.WithValue(ctx, contextKeyUserAgent{}, userAgent)
}

func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyClientIP{}).(string)
	return v
}

func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyUserAgent{}).(string)
	return v
}

// WithDeviceType stores the coarse device class derived from the User-Agent.
func WithDeviceType(ctx context.Context, deviceType string) context.Context {
	return context.WithValue(ctx, contextKeyDeviceType{}, deviceType)
}

func DeviceType(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyDeviceType{}).(string)
	return v
}

// WithBrowserLanguage stores the preferred browser language tag (e.g. "es-ES").
func WithBrowserLanguage(ctx context.Context, tag string) context.Context {
	return context.WithValue(ctx, contextKeyLanguage{}, tag)
}

func BrowserLanguage(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyLanguage{}).(string)
	return v
}

// WithSessionID stores the site session id.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextKeySessionID{}, sessionID)
}

func SessionID(ctx context.Context) string {
	v, _ := ctx.Value(contextKeySessionID{}).(string)
	return v
}

// WithTime pins the request clock. Tests and workers use it to get a stable "now".
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyNow{}, t)
}

// Now returns the pinned request time, falling back to time.Now().
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyNow{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
