package service

import (
	"errors"
	"testing"
	"time"
)

func TestIsFreshBoundary(t *testing.T) {
	ttl := 4 * time.Hour
	now := time.Now()

	if !IsFresh(now.Add(-ttl+time.Second), ttl) {
		t.Error("snapshot one second inside the TTL must be fresh")
	}
	if IsFresh(now.Add(-ttl-time.Second), ttl) {
		t.Error("snapshot one second past the TTL must be stale")
	}
	if IsFresh(time.Time{}, ttl) {
		t.Error("a never-computed snapshot must be stale")
	}
}

func TestRefreshIfStale(t *testing.T) {
	recomputed := 0
	recompute := func() (string, error) {
		recomputed++
		return "fresh", nil
	}

	// Fresh snapshot: no recompute.
	got, err := RefreshIfStale("cached", time.Now(), time.Hour, false, recompute)
	if err != nil {
		t.Fatal(err)
	}
	if got != "cached" || recomputed != 0 {
		t.Errorf("fresh snapshot recomputed: got %q, %d recomputes", got, recomputed)
	}

	// Stale snapshot: recompute.
	got, err = RefreshIfStale("cached", time.Now().Add(-2*time.Hour), time.Hour, false, recompute)
	if err != nil {
		t.Fatal(err)
	}
	if got != "fresh" || recomputed != 1 {
		t.Errorf("stale snapshot not recomputed: got %q, %d recomputes", got, recomputed)
	}

	// Force bypasses freshness entirely.
	got, err = RefreshIfStale("cached", time.Now(), time.Hour, true, recompute)
	if err != nil {
		t.Fatal(err)
	}
	if got != "fresh" || recomputed != 2 {
		t.Errorf("force did not recompute: got %q, %d recomputes", got, recomputed)
	}

	// Recompute failures propagate.
	fail := errors.New("github down")
	_, err = RefreshIfStale("cached", time.Time{}, time.Hour, false, func() (string, error) {
		return "", fail
	})
	if !errors.Is(err, fail) {
		t.Errorf("recompute error not propagated: %v", err)
	}
}
