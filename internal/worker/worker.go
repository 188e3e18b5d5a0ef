package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// QuizCloser finalizes quizzes whose deadline has passed.
type QuizCloser interface {
	CloseExpired(ctx context.Context) (int, error)
}

// Sweeper periodically closes expired quizzes so results go out even when
// nobody reads the quiz after its deadline.
type Sweeper struct {
	closer   QuizCloser
	interval time.Duration
	logger   *zap.Logger
}

// NewSweeper creates an expiry sweeper.
func NewSweeper(closer QuizCloser, interval time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{closer: closer, interval: interval, logger: logger}
}

// Run starts the sweep loop. Blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("quiz sweeper stopping")
			return
		case <-ticker.C:
			closed, err := s.closer.CloseExpired(ctx)
			if err != nil {
				s.logger.Warn("quiz sweep error", zap.Error(err))
				continue
			}
			if closed > 0 {
				s.logger.Info("closed expired quizzes", zap.Int("count", closed))
			}
		}
	}
}
