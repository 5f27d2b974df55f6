package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodhelp-bot/pkg"
)

func testState(id string) *pkg.ConversationState {
	return &pkg.ConversationState{
		ConversantID: id,
		Role:         pkg.RoleDonor,
		Step:         pkg.StepCollect,
		Fields:       pkg.Fields{FullName: "Ravi", BloodType: "A+", City: "Pune"},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "919876543210")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, testState("919876543210")))
	got, err := store.Get(ctx, "919876543210")
	require.NoError(t, err)
	assert.Equal(t, testState("919876543210"), got)

	// Mutating the returned state must not leak into the store.
	got.Fields.City = "Delhi"
	again, err := store.Get(ctx, "919876543210")
	require.NoError(t, err)
	assert.Equal(t, "Pune", again.Fields.City)

	require.NoError(t, store.Delete(ctx, "919876543210"))
	_, err = store.Get(ctx, "919876543210")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is a no-op.
	assert.NoError(t, store.Delete(ctx, "absent"))
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour)

	_, err := store.Get(ctx, "919876543210")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, testState("919876543210")))
	got, err := store.Get(ctx, "919876543210")
	require.NoError(t, err)
	assert.Equal(t, testState("919876543210"), got)

	// State carries a TTL so abandoned conversations age out.
	assert.Greater(t, mr.TTL("conversation:919876543210"), time.Duration(0))
	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "919876543210")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, 0)

	require.NoError(t, store.Put(ctx, testState("1")))
	require.NoError(t, store.Delete(ctx, "1"))
	_, err := store.Get(ctx, "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeyedLockerSerializesSameKey(t *testing.T) {
	locker := NewKeyedLocker()
	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locker.Lock("same")
			defer locker.Unlock("same")
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxActive)
}

func TestKeyedLockerDoesNotBlockAcrossKeys(t *testing.T) {
	locker := NewKeyedLocker()
	locker.Lock("a")
	defer locker.Unlock("a")

	done := make(chan struct{})
	go func() {
		locker.Lock("b")
		locker.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}
