package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	consentmodels "paraiso/internal/consent/models"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/sync"
)

const defaultTTL = 24 * time.Hour

// Manager serializes reads-modify-writes of a session. Concurrent requests of
// the same browser never interleave inside Update.
type Manager struct {
	store Store
	locks *sync.ShardedMutex
	ttl   time.Duration
	now   func() time.Time
}

type Option func(*Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		locks: sync.NewShardedMutex(),
		ttl:   defaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get loads a session without locking.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "load session")
	}
	return sess, nil
}

// Create starts a new session and lets init seed it before the first save.
func (m *Manager) Create(ctx context.Context, init func(*Session)) (*Session, error) {
	now := m.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Consent:   consentmodels.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if init != nil {
		init(sess)
	}
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return nil, wrapStoreErr(err, "save session")
	}
	return sess, nil
}

// Update applies fn to the stored session under the session lock and saves
// the result. The session is saved even when fn fails, so failure markers
// set by fn survive; fn's error is then returned.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	var out *Session
	err := m.locks.Do(id, func() error {
		sess, err := m.store.Get(ctx, id)
		if err != nil {
			return wrapStoreErr(err, "load session")
		}
		fnErr := fn(sess)
		sess.UpdatedAt = m.now()
		if err := m.store.Save(ctx, sess, m.ttl); err != nil {
			return wrapStoreErr(err, "save session")
		}
		out = sess
		return fnErr
	})
	return out, err
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.locks.Do(id, func() error {
		if err := m.store.Delete(ctx, id); err != nil {
			return wrapStoreErr(err, "delete session")
		}
		return nil
	})
}

func wrapStoreErr(err error, msg string) error {
	if errors.Is(err, ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "session not found")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
}
