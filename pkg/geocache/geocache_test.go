package geocache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grocemart/grocemart-backend/pkg/types"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	val, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return val, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeStore) GeoKey(scope, id string) string {
	return "gm:geo:" + scope + ":" + id
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := New(newFakeStore(), 30*time.Minute)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	loc := types.LatLng{Lat: 40.7, Lng: -74.0}
	if err := cache.Put(context.Background(), "store", "abc", loc); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, ok, err := cache.Get(context.Background(), "store", "abc")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != loc {
		t.Fatalf("got %+v, want %+v", got, loc)
	}
}

func TestCacheMiss(t *testing.T) {
	cache, err := New(newFakeStore(), 30*time.Minute)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, ok, err := cache.Get(context.Background(), "store", "missing")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatal("expected cache miss")
	}
}

func TestCacheStaleAtExactTTL(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := newFakeStore()
	cache, err := New(store, 30*time.Minute, WithClock(func() time.Time { return clock() }))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	loc := types.LatLng{Lat: 1, Lng: 2}
	if err := cache.Put(context.Background(), "store", "abc", loc); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	// One second shy of the TTL: still fresh.
	now = now.Add(30*time.Minute - time.Second)
	if _, ok, _ := cache.Get(context.Background(), "store", "abc"); !ok {
		t.Fatal("expected hit just under the TTL")
	}

	// Exactly at the TTL: stale, evicted.
	now = now.Add(time.Second)
	if _, ok, _ := cache.Get(context.Background(), "store", "abc"); ok {
		t.Fatal("expected staleness at exactly the TTL")
	}
	if len(store.values) != 0 {
		t.Fatal("expected stale entry to be evicted")
	}
}
