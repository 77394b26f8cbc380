package service

import "time"

// TTLs for the two classes of cached GitHub-derived data.
const (
	RepoAnalysisTTL     = 24 * time.Hour
	IssueSuggestionsTTL = 4 * time.Hour
)

// IsFresh reports whether a snapshot computed at lastComputed is still
// usable under the given TTL. A zero lastComputed (never computed) is
// always stale.
func IsFresh(lastComputed time.Time, ttl time.Duration) bool {
	if lastComputed.IsZero() {
		return false
	}
	return time.Since(lastComputed) < ttl
}

// RefreshIfStale returns the cached snapshot when it is still fresh,
// otherwise runs recompute and returns its result. force bypasses the
// freshness check entirely.
//
// The caller's recompute function is responsible for upserting the new
// snapshot (replace, not merge) with a fresh timestamp. Two callers racing
// on the same key both recompute and both upsert; last writer wins. That
// race is accepted: the loser's snapshot is equally valid and the next
// reader sees a fresh one either way.
func RefreshIfStale[T any](cached T, lastComputed time.Time, ttl time.Duration, force bool, recompute func() (T, error)) (T, error) {
	if !force && IsFresh(lastComputed, ttl) {
		return cached, nil
	}
	return recompute()
}
