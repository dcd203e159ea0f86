package sync

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardedMutexSameKeySerializes(t *testing.T) {
	m := NewShardedMutex()
	counter := 0

	var wg sync.WaitGroup
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Do("session-1", func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, counter)
}

func TestShardedMutexDoReturnsError(t *testing.T) {
	m := NewShardedMutex()
	want := errors.New("store down")

	err := m.Do("session-1", func() error { return want })

	assert.ErrorIs(t, err, want)
	// the shard is released even when fn fails
	m.Lock("session-1")
	m.Unlock("session-1")
}

func TestShardFor(t *testing.T) {
	assert.Equal(t, 0, shardFor(""))
	assert.Equal(t, shardFor("abc"), shardFor("abc"))
	for _, key := range []string{"a", "b", "session-42", "6f1c2d"} {
		s := shardFor(key)
		assert.GreaterOrEqual(t, s, 0)
		assert.Less(t, s, shardCount)
	}
}
