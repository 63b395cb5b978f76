// Package scheduler runs the periodic jobs of the server: the session clock
// poller and the optional nightly rating recalculation.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Dosada05/rotation-players/models"
	"github.com/robfig/cron/v3"
)

type ClockPoller interface {
	PollClocks(ctx context.Context, now time.Time) error
}

type RatingsRecalculator interface {
	RecalculateRatings(ctx context.Context) ([]*models.Participant, error)
}

type Config struct {
	ClockPollInterval time.Duration
	RatingsCronSpec   string // стандартный 5-польный cron; пусто = выключено
}

type Scheduler struct {
	c       *cron.Cron
	clocks  ClockPoller
	ratings RatingsRecalculator
	logger  *slog.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

func New(cfg Config, clocks ClockPoller, ratings RatingsRecalculator, logger *slog.Logger) (*Scheduler, error) {
	if cfg.ClockPollInterval < time.Second {
		return nil, errors.New("clock poll interval must be at least 1s")
	}

	cronLogger := slogAdapter{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		// Медленный тик не должен накапливать очередь.
		c:       cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))),
		clocks:  clocks,
		ratings: ratings,
		logger:  logger,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}

	s.c.Schedule(cron.Every(cfg.ClockPollInterval), cron.FuncJob(s.pollClocks))

	if cfg.RatingsCronSpec != "" {
		if _, err := s.c.AddFunc(cfg.RatingsCronSpec, s.recalculateRatings); err != nil {
			cancel()
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("scheduler started", slog.Int("jobs", len(s.c.Entries())))
	s.c.Start()
}

// Stop отменяет текущие задачи и ждёт их завершения, но не дольше ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	select {
	case <-s.c.Stop().Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) pollClocks() {
	if err := s.clocks.PollClocks(s.ctx, s.now()); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("clock poller: run failed", slog.Any("error", err))
	}
}

func (s *Scheduler) recalculateRatings() {
	participants, err := s.ratings.RecalculateRatings(s.ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Error("ratings recalculation failed", slog.Any("error", err))
		}
		return
	}
	s.logger.Info("ratings recalculated", slog.Int("participants", len(participants)))
}

// slogAdapter реализует cron.Logger поверх slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug("cron: "+msg, keysAndValues...)
}

func (a slogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error("cron: "+msg, append([]interface{}{slog.Any("error", err)}, keysAndValues...)...)
}
