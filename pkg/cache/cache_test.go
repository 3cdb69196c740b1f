package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "repo:apple/swift-log", []byte(`{"ok":true}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "repo:apple/swift-log")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("unexpected data: %s", data)
	}

	// Unknown key is a miss.
	if _, hit, _ := c.Get(ctx, "repo:unknown"); hit {
		t.Error("expected miss for unknown key")
	}

	if err := c.Delete(ctx, "repo:apple/swift-log"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "repo:apple/swift-log"); hit {
		t.Error("expected miss after delete")
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expected expired entry to be a miss")
	}
}

func TestRetryWithBackoffNonRetryable(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("permanent")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("non-retryable error should not retry, got %d calls", calls)
	}
}

func TestRetryWithBackoffRecovers(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 2 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
	if !IsRetryable(Retryable(errors.New("transient"))) {
		t.Error("wrapped error should be retryable")
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}
