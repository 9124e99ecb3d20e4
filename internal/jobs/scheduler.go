// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание ночной очистки удалённых товаров.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Purger физически удаляет помеченные товары (catalog.Service).
type Purger interface {
	PurgeDeleted(ctx context.Context) (int, error)
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	purger   Purger
	schedule string
	onStart  bool
}

// NewScheduler создаёт планировщик в часовом поясе loc.
// Паника внутри задачи не роняет процесс: её ловит cron.Recover.
func NewScheduler(purger Purger, schedule string, onStart bool, loc *time.Location) *Scheduler {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.PrintfLogger(log.StandardLogger()))),
	)

	return &Scheduler{
		cron:     c,
		purger:   purger,
		schedule: schedule,
		onStart:  onStart,
	}
}

// Start регистрирует задачи и запускает планировщик.
// Некорректное расписание - ошибка, процесс стартовать не должен.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.purge(ctx) }); err != nil {
		return fmt.Errorf("некорректное расписание очистки %q: %w", s.schedule, err)
	}

	if s.onStart {
		go s.purge(ctx)
	}

	s.cron.Start()
	log.WithField("schedule", s.schedule).Info("Планировщик задач запущен")
	return nil
}

// purge - один прогон очистки. Повторов нет: упавший прогон
// откатывается целиком, следующий будет по расписанию.
func (s *Scheduler) purge(ctx context.Context) {
	log.Info("[CRON] Очистка удалённых товаров")
	n, err := s.purger.PurgeDeleted(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка очистки")
		return
	}
	log.WithField("purged", n).Info("[CRON] Очистка завершена")
}

// Stop останавливает планировщик и ждёт завершения идущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
