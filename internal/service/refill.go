package service

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Flat coin allowance every contributor receives each calendar month.
const MonthlyRefillAmount = 100

// RefillUserStore is the slice of the user store the refill job needs.
type RefillUserStore interface {
	// RefillContributors increments every contributor's balance by amount
	// and stamps the refill time, returning how many accounts were touched.
	RefillContributors(ctx context.Context, amount int, now time.Time) (int64, error)
}

// RefillResult reports a refill run.
type RefillResult struct {
	RefilledCount int64     `json:"refilledCount"`
	RanAt         time.Time `json:"ranAt"`
}

// RefillService grants the monthly coin allowance to contributor accounts.
type RefillService struct {
	users RefillUserStore
}

func NewRefillService(users RefillUserStore) *RefillService {
	return &RefillService{users: users}
}

// MonthlyRefill runs one refill batch. The whole batch is a single bulk
// update, so an individual account can not block the others; a persistence
// failure is returned to the caller, which logs it and moves on.
func (s *RefillService) MonthlyRefill(ctx context.Context) (RefillResult, error) {
	now := time.Now()
	count, err := s.users.RefillContributors(ctx, MonthlyRefillAmount, now)
	if err != nil {
		return RefillResult{}, err
	}
	return RefillResult{RefilledCount: count, RanAt: now}, nil
}

// StartScheduler registers the refill on a monthly cadence: midnight on the
// first of each month. Firing once per calendar period is the scheduler's
// job; the refill logic itself is deliberately not idempotent. Failures are
// logged and never crash the host process.
func (s *RefillService) StartScheduler() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.MonthlyJob(1,
			gocron.NewDaysOfTheMonth(1),
			gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0)),
		),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			res, err := s.MonthlyRefill(ctx)
			if err != nil {
				log.Printf("[Refill] coin refill failed: %v", err)
				return
			}
			log.Printf("[Refill] refilled coins for %d contributors", res.RefilledCount)
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
