package cronjob

import (
	"time"

	"github.com/smitenet/smite-panel/logger"

	"github.com/robfig/cron/v3"
)

type CronJob struct {
	cron *cron.Cron
}

func NewCronJob() *CronJob {
	return &CronJob{}
}

func (c *CronJob) Start(loc *time.Location) error {
	c.cron = cron.New(cron.WithLocation(loc), cron.WithSeconds())

	if _, err := c.cron.AddJob("@every 5m", NewReapplyJob()); err != nil {
		logger.Warning("add reapply job failed:", err)
		return err
	}

	c.cron.Start()
	return nil
}

func (c *CronJob) Stop() {
	if c.cron != nil {
		c.cron.Stop()
	}
}
