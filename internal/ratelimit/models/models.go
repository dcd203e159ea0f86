package models

import (
	"fmt"
	"strings"
	"time"
)

// EndpointClass groups API endpoints that share a limit.
type EndpointClass string

const (
	// ClassToken covers the public timed-token endpoint.
	ClassToken EndpointClass = "token"
	// ClassRead covers content reads (blog, charcuteria).
	ClassRead EndpointClass = "read"
	// ClassContact covers contact form submissions.
	ClassContact EndpointClass = "contact"
)

func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassToken, ClassRead, ClassContact:
		return true
	}
	return false
}

type KeyPrefix string

const KeyPrefixIP KeyPrefix = "ip"

// RateLimitResult is the outcome of a single bucket check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"error_description"`
	RetryAfter int    `json:"retry_after"`
}

// RateLimitKey builds bucket keys. Identifier segments are escaped so a
// crafted identifier cannot collide with another bucket.
type RateLimitKey struct {
	prefix     KeyPrefix
	identifier string
	class      EndpointClass
}

func NewRateLimitKey(prefix KeyPrefix, identifier string, class EndpointClass) RateLimitKey {
	return RateLimitKey{
		prefix:     prefix,
		identifier: sanitizeKeySegment(identifier),
		class:      class,
	}
}

func (k RateLimitKey) String() string {
	if k.class == "" {
		return fmt.Sprintf("%s:%s", k.prefix, k.identifier)
	}
	return fmt.Sprintf("%s:%s:%s", k.prefix, k.identifier, k.class)
}

// sanitizeKeySegment escapes '_' first, then ':'.
//
//	"a:b"  -> "a_cb"
//	"a_b"  -> "a__b"
//	"a_:b" -> "a___cb"
func sanitizeKeySegment(s string) string {
	s = strings.ReplaceAll(s, "_", "__")
	s = strings.ReplaceAll(s, ":", "_c")
	return s
}
