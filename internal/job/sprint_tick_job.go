package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sprint-board-api/internal/engine"
)

// SprintTicker advances sprints whose dates call for a new state
type SprintTicker interface {
	Tick(ctx context.Context) ([]engine.SprintTransition, error)
}

// SprintTickJob runs one scheduler pass per cron firing
type SprintTickJob struct {
	ticker  SprintTicker
	timeout time.Duration
	logger  *zap.Logger
}

// NewSprintTickJob creates a new SprintTickJob instance
func NewSprintTickJob(ticker SprintTicker, timeout time.Duration, logger *zap.Logger) *SprintTickJob {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SprintTickJob{
		ticker:  ticker,
		timeout: timeout,
		logger:  logger,
	}
}

// Run implements cron.Job
func (j *SprintTickJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	transitions, err := j.ticker.Tick(ctx)
	if err != nil {
		j.logger.Error("Sprint tick failed", zap.Error(err))
		return
	}

	if len(transitions) == 0 {
		j.logger.Debug("Sprint tick completed, no sprint changed state")
		return
	}

	j.logger.Info("Sprint tick completed",
		zap.Int("transitions", len(transitions)),
	)
}
