package registry

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestGetMaterializesOnce(t *testing.T) {
	store := New()
	var calls int32
	store.Register("detector", func() (any, error) {
		atomic.AddInt32(&calls, 1)
		return "handle", nil
	})

	first, err := store.Get("detector")
	if err != nil {
		t.Fatalf("first Get failed: %v", err)
	}
	second, err := store.Get("detector")
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}

	if first != second {
		t.Errorf("expected the same cached handle, got %v and %v", first, second)
	}
	if calls != 1 {
		t.Errorf("factory ran %d times, want 1", calls)
	}
}

func TestGetUnregisteredKey(t *testing.T) {
	store := New()
	store.Register("known", func() (any, error) { return 1, nil })

	// The error must repeat on every call, without caching a sentinel.
	for i := 0; i < 3; i++ {
		_, err := store.Get("unknown")
		if !errors.Is(err, ErrNotRegistered) {
			t.Fatalf("call %d: got %v, want ErrNotRegistered", i, err)
		}
	}
}

func TestFactoryFailureIsRetried(t *testing.T) {
	store := New()
	var calls int
	boom := errors.New("model file missing")
	store.Register("encoder", func() (any, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return "loaded", nil
	})

	if _, err := store.Get("encoder"); !errors.Is(err, boom) {
		t.Fatalf("expected factory error, got %v", err)
	}
	value, err := store.Get("encoder")
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if value != "loaded" {
		t.Errorf("got %v, want loaded", value)
	}
	if calls != 2 {
		t.Errorf("factory ran %d times, want 2", calls)
	}
}

func TestConcurrentFirstAccess(t *testing.T) {
	store := New()
	var calls int32
	store.Register("predictor", func() (any, error) {
		atomic.AddInt32(&calls, 1)
		return new(int), nil
	})

	const workers = 16
	results := make([]any, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, err := store.Get("predictor")
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			results[i] = value
		}(i)
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("factory ran %d times under contention, want 1", calls)
	}
	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("worker %d received a different handle", i)
		}
	}
}

func TestResolveTypeMismatch(t *testing.T) {
	store := New()
	store.Register("gender", func() (any, error) { return "not an int", nil })

	if _, err := Resolve[int](store, "gender"); err == nil {
		t.Error("expected a type mismatch error")
	}
	value, err := Resolve[string](store, "gender")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if value != "not an int" {
		t.Errorf("got %q", value)
	}
}

func TestKeysSorted(t *testing.T) {
	store := New()
	store.Register("b", func() (any, error) { return nil, nil })
	store.Register("a", func() (any, error) { return nil, nil })
	store.Register("c", func() (any, error) { return nil, nil })

	keys := store.Keys()
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}
