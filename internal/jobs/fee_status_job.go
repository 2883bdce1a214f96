// Package jobs holds the background jobs of the API process
package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/app/models"
)

// FeeSweeper flips overdue fees to late and refreshes suspensions
type FeeSweeper interface {
	MarkOverdueFeesLate(ctx context.Context) (models.FeeSweepResult, error)
}

// FeeStatusJob periodically marks overdue fees as late
type FeeStatusJob struct {
	sweeper  FeeSweeper
	interval time.Duration
	logger   zerolog.Logger
}

// NewFeeStatusJob creates a FeeStatusJob. A non-positive interval defaults to one hour.
func NewFeeStatusJob(sweeper FeeSweeper, interval time.Duration, logger zerolog.Logger) *FeeStatusJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &FeeStatusJob{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger.With().Str("job", "fee_status").Logger(),
	}
}

// Name returns the job name
func (j *FeeStatusJob) Name() string {
	return "fee_status"
}

// Run executes one sweep
func (j *FeeStatusJob) Run(ctx context.Context) error {
	start := time.Now()
	res, err := j.sweeper.MarkOverdueFeesLate(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("Fee sweep failed")
		return err
	}

	j.logger.Info().
		Int64("feesMarkedLate", res.FeesMarkedLate).
		Int64("studentsSuspended", res.StudentsSuspended).
		Int64("studentsReinstated", res.StudentsReinstated).
		Dur("duration", time.Since(start)).
		Msg("Fee sweep completed")
	return nil
}

// Loop runs a sweep immediately and then on every tick until ctx is cancelled.
// Sweep failures are logged and the loop keeps going.
func (j *FeeStatusJob) Loop(ctx context.Context) {
	j.logger.Info().Dur("interval", j.interval).Msg("Fee status job started")
	defer j.logger.Info().Msg("Fee status job stopped")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	_ = j.Run(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = j.Run(ctx)
		}
	}
}
