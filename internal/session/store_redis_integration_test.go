//go:build integration

package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"paraiso/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	client *redis.Client
	store  *RedisStore
}

func (s *RedisStoreSuite) SetupSuite() {
	rc := containers.GetManager().GetRedis(s.T())
	opts, err := redis.ParseURL(rc.URL)
	s.Require().NoError(err)
	s.client = redis.NewClient(opts)
	s.store = NewRedisStore(s.client)
}

func (s *RedisStoreSuite) TearDownSuite() {
	_ = s.client.Close()
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.client.FlushDB(context.Background()).Err())
}

func (s *RedisStoreSuite) TestRoundTripKeepsConsentAndLocale() {
	ctx := context.Background()
	sess := &Session{ID: "6f1c2b1e-9a53-4c1e-9a55-3c1f9d7c2b10", Locale: "de", MapLocale: "es"}
	sess.Consent.AnalysisGranted = true
	sess.Consent.PendingAnalysisGoogle = true

	s.Require().NoError(s.store.Save(ctx, sess, time.Minute))

	got, err := s.store.Get(ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal("de", got.Locale)
	s.Equal("es", got.MapLocale)
	s.True(got.Consent.AnalysisGranted)
	s.True(got.Consent.PendingAnalysisGoogle)

	ttl, err := s.client.TTL(ctx, sessionKeyPrefix+sess.ID).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisStoreSuite) TestMissingAndDeletedSessionsAreNotFound() {
	ctx := context.Background()
	_, err := s.store.Get(ctx, "missing")
	s.ErrorIs(err, ErrNotFound)

	sess := &Session{ID: "a"}
	s.Require().NoError(s.store.Save(ctx, sess, time.Minute))
	s.Require().NoError(s.store.Delete(ctx, sess.ID))
	_, err = s.store.Get(ctx, sess.ID)
	s.ErrorIs(err, ErrNotFound)
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}
