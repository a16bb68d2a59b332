package cache

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRistrettoCache(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	cacheInterface, err := NewRistrettoCache(&RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      logger,
	})
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer cacheInterface.Close()

	// Cast to RistrettoCache for test-specific methods
	cache := cacheInterface.(*RistrettoCache)

	t.Run("set-and-get", func(t *testing.T) {
		key := "market-42"
		value := struct{}{}

		success := cache.Set(key, value, 1*time.Hour)
		if !success {
			t.Error("expected Set to succeed")
		}

		// Wait for Ristretto to process pending writes
		cache.Wait()

		retrieved, found := cache.Get(key)
		if !found {
			t.Error("expected key to be found")
		}

		if retrieved != value {
			t.Errorf("expected %v, got %v", value, retrieved)
		}
	})

	t.Run("get-missing-key", func(t *testing.T) {
		_, found := cache.Get("nonexistent")
		if found {
			t.Error("expected key to not be found")
		}
	})

	t.Run("delete", func(t *testing.T) {
		key := "market-7"

		cache.Set(key, struct{}{}, 1*time.Hour)
		cache.Wait()

		_, found := cache.Get(key)
		if !found {
			t.Error("expected key to exist before delete")
		}

		cache.Delete(key)

		_, found = cache.Get(key)
		if found {
			t.Error("expected key to be deleted")
		}
	})

	t.Run("ttl-expiration", func(t *testing.T) {
		key := "market-9"

		cache.Set(key, struct{}{}, 200*time.Millisecond)
		cache.Wait()

		_, found := cache.Get(key)
		if !found {
			t.Error("expected key to exist before TTL expiry")
		}

		time.Sleep(300 * time.Millisecond)

		_, found = cache.Get(key)
		if found {
			t.Error("expected key to expire after TTL")
		}
	})

	t.Run("clear", func(t *testing.T) {
		cache.Set("a", struct{}{}, time.Hour)
		cache.Set("b", struct{}{}, time.Hour)
		cache.Wait()

		cache.Clear()

		if _, found := cache.Get("a"); found {
			t.Error("expected cache to be empty after clear")
		}
	})
}
