// Command marks-events tails the marks.changed queue and logs every event.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/student-marks/internal/config"
	"github.com/iliyamo/student-marks/internal/logger"
	"github.com/iliyamo/student-marks/internal/queue"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("prod", "info")
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	ecfg, err := config.LoadEventsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid events configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", ecfg.Queue).Msg("consuming marks events")
	err = queue.Consume(ctx, ecfg.URL, ecfg.Queue, log, func(_ context.Context, ev queue.MarksChangedEvent) error {
		e := log.Info().
			Str("action", ev.Action).
			Str("student_id", ev.StudentID).
			Str("occurred_at", ev.OccurredAt)
		if ev.RequestID != "" {
			e = e.Str("request_id", ev.RequestID)
		}
		if ev.Action == queue.ActionUpserted {
			for i, s := range []*float64{ev.Sub1, ev.Sub2, ev.Sub3, ev.Sub4, ev.Sub5} {
				if s != nil {
					e = e.Float64(subjectKeys[i], *s)
				}
			}
		}
		e.Msg("marks changed")
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("consumer stopped")
	}
}

var subjectKeys = [5]string{"sub1", "sub2", "sub3", "sub4", "sub5"}
