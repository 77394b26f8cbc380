package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pullquest/backend/internal/models"
)

// Three contributors with balances {10, 0, 5} end up at {110, 100, 105},
// each stamped with the run time. Non-contributor roles are untouched.
func TestMonthlyRefill(t *testing.T) {
	contributors := []*models.User{
		{ID: primitive.NewObjectID(), Role: models.RoleContributor, Coins: 10},
		{ID: primitive.NewObjectID(), Role: models.RoleContributor, Coins: 0},
		{ID: primitive.NewObjectID(), Role: models.RoleContributor, Coins: 5},
	}
	maintainer := &models.User{ID: primitive.NewObjectID(), Role: models.RoleMaintainer, Coins: 7}
	users := newMemUsers(append(contributors, maintainer)...)

	svc := NewRefillService(users)
	before := time.Now()
	res, err := svc.MonthlyRefill(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if res.RefilledCount != 3 {
		t.Errorf("refilledCount = %d, want 3", res.RefilledCount)
	}

	want := []int{110, 100, 105}
	for i, u := range contributors {
		if got := users.coins(u.ID); got != want[i] {
			t.Errorf("contributor %d balance = %d, want %d", i, got, want[i])
		}
		if users.users[u.ID].MonthlyCoinsLastRefill.Before(before) {
			t.Errorf("contributor %d refill timestamp not updated", i)
		}
	}
	if got := users.coins(maintainer.ID); got != 7 {
		t.Errorf("maintainer balance = %d, want unchanged 7", got)
	}
}

type failingRefillStore struct{}

func (failingRefillStore) RefillContributors(context.Context, int, time.Time) (int64, error) {
	return 0, context.DeadlineExceeded
}

func TestMonthlyRefillPropagatesStoreFailure(t *testing.T) {
	svc := NewRefillService(failingRefillStore{})
	if _, err := svc.MonthlyRefill(context.Background()); err == nil {
		t.Error("store failure must be reported, not swallowed")
	}
}
