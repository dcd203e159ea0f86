// Package token issues and verifies the short-lived tokens that gate the
// content API. A token is bound to a fixed time interval and stays valid
// through the following interval.
package token

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/requestcontext"
)

// Header carries the token on protected requests.
const Header = "x-timed-token"

const issuer = "paraiso-api"

// ErrInvalid covers malformed, forged and expired tokens alike.
var ErrInvalid = dErrors.New(dErrors.CodeForbidden, "Token inválido o expirado")

// Claims binds a token to the interval it was issued in.
type Claims struct {
	Interval int64 `json:"itv"`
	jwt.RegisteredClaims
}

type Service struct {
	signingKey []byte
	interval   time.Duration
	now        func() time.Time
}

type Option func(*Service)

// WithClock overrides the verification clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(signingKey string, interval time.Duration, opts ...Option) (*Service, error) {
	if signingKey == "" {
		return nil, errors.New("token signing key is required")
	}
	if interval < time.Second {
		return nil, errors.New("token interval must be at least one second")
	}
	s := &Service{
		signingKey: []byte(signingKey),
		interval:   interval,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) intervalOf(t time.Time) int64 {
	return t.Unix() / int64(s.interval/time.Second)
}

// Issue signs a token for the interval containing the request time.
func (s *Service) Issue(ctx context.Context) (string, error) {
	now := requestcontext.Now(ctx)
	itv := s.intervalOf(now)
	start := time.Unix(itv*int64(s.interval/time.Second), 0)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Interval: itv,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(itv, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(start),
			ExpiresAt: jwt.NewNumericDate(start.Add(2 * s.interval)),
		},
	})
	signed, err := t.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// Verify accepts tokens issued in the current or the previous interval.
func (s *Service) Verify(tokenString string) error {
	if tokenString == "" {
		return ErrInvalid
	}
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return ErrInvalid
	}

	current := s.intervalOf(s.now())
	if claims.Interval != current && claims.Interval != current-1 {
		return ErrInvalid
	}
	return nil
}
