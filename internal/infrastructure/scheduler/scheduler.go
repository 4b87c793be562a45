package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/internal/domain/repository"
	"go.uber.org/zap"
)

const jobTimeout = time.Minute

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler runs housekeeping jobs on the shop's wall clock
type Scheduler struct {
	cron            *cron.Cron
	idempotencyRepo repository.IdempotencyRepository
	revenueRepo     repository.RevenueRepository
	loc             *time.Location
	now             func() time.Time
}

// New creates a scheduler whose cron expressions are evaluated in loc
func New(
	idempotencyRepo repository.IdempotencyRepository,
	revenueRepo repository.RevenueRepository,
	loc *time.Location,
) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(loc), cron.WithParser(cronParser)),
		idempotencyRepo: idempotencyRepo,
		revenueRepo:     revenueRepo,
		loc:             loc,
		now:             time.Now,
	}
}

// Start registers the jobs and starts the cron loop in the background
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.run("purge idempotency keys", s.PurgeExpiredKeys)); err != nil {
		return err
	}
	// shortly after midnight so the previous day's bucket is final
	if _, err := s.cron.AddFunc("5 0 * * *", s.run("daily revenue report", s.ReportPreviousDay)); err != nil {
		return err
	}
	s.cron.Start()
	zap.L().Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run(name string, job func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := job(ctx); err != nil {
			zap.L().Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		}
	}
}

// PurgeExpiredKeys deletes idempotency keys past their expiry
func (s *Scheduler) PurgeExpiredKeys(ctx context.Context) error {
	n, err := s.idempotencyRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		zap.L().Info("expired idempotency keys purged", zap.Int64("count", n))
	}
	return nil
}

// ReportPreviousDay logs the closing revenue of yesterday's bucket
func (s *Scheduler) ReportPreviousDay(ctx context.Context) error {
	day := entity.DayKey(s.now().In(s.loc).AddDate(0, 0, -1))
	bucket, err := s.revenueRepo.Get(ctx, day)
	if err != nil {
		return err
	}

	total := "0"
	if bucket != nil {
		total = bucket.TotalAmount.String()
	}
	zap.L().Info("daily revenue closed", zap.String("date", day), zap.String("total", total))
	return nil
}
