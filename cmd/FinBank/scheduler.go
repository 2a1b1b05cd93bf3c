package main

import (
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/sebuszqo/FinBank/internal/auth"
)

// StartSessionCleanupScheduler purges expired two-factor session tokens on the given schedule.
func StartSessionCleanupScheduler(schedule string, sessions auth.SessionManagerInterface, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if removed := sessions.PurgeExpired(); removed > 0 {
			logger.Debug("expired session tokens purged", slog.Int("removed", removed))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
