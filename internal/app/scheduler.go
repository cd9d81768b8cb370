package app

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SeatRepairer перепривязывает места будущих вылетов
type SeatRepairer interface {
	RepairUpcoming(ctx context.Context, now time.Time) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	repairer SeatRepairer
	interval time.Duration
	logger   *zap.Logger
	cron     *cron.Cron
	wg       sync.WaitGroup
}

// NewScheduler создаёт новый планировщик. Интервал меньше секунды округляется до секунды.
func NewScheduler(repairer SeatRepairer, interval time.Duration, logger *zap.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))
	return &Scheduler{
		repairer: repairer,
		interval: interval,
		logger:   logger,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("repair_interval", s.interval))

	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.repairSeats(ctx)
	}))
	s.cron.Start()

	// Первый запуск сразу при старте
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.repairSeats(ctx)
	}()
}

// Stop останавливает фоновые задачи и ждёт завершения текущих запусков
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("Seat repair task stopped")
}

func (s *Scheduler) repairSeats(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	repaired, err := s.repairer.RepairUpcoming(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to repair seat assignments", zap.Error(err))
		return
	}

	s.logger.Debug("Seat repair completed", zap.Int("schedules", repaired))
}
