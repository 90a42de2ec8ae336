package cronjob

import (
	"github.com/smitenet/smite-panel/logger"
	"github.com/smitenet/smite-panel/service"
)

// ReapplyJob sweeps stored tunnels and re-validates each spec through its
// adapter. A record that no longer round-trips (manual edits, migration
// leftovers) is flagged instead of silently handed to an engine later.
type ReapplyJob struct {
	service.TunnelService
}

func NewReapplyJob() *ReapplyJob {
	return new(ReapplyJob)
}

func (j *ReapplyJob) Run() {
	tunnels, err := j.TunnelService.GetTunnels()
	if err != nil {
		logger.Warning("reapply sweep failed: ", err)
		return
	}
	for i := range tunnels {
		tunnel := &tunnels[i]
		if _, err := j.TunnelService.EditIntent(tunnel); err != nil {
			logger.Warningf("tunnel %s failed validation: %v", tunnel.Name, err)
			if err := j.TunnelService.MarkStatus(tunnel.PublicID, "error", err.Error()); err != nil {
				logger.Error("unable to flag tunnel: ", err)
			}
			continue
		}
		if tunnel.Status == "error" {
			if err := j.TunnelService.MarkStatus(tunnel.PublicID, "pending", ""); err != nil {
				logger.Error("unable to clear tunnel error: ", err)
			}
		}
	}
}
