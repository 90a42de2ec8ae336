package service

import (
	"time"

	"github.com/smitenet/smite-panel/database"
	"github.com/smitenet/smite-panel/database/model"
	"github.com/smitenet/smite-panel/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

type SystemStatus struct {
	CPU      float64     `json:"cpu"`
	MemUsed  uint64      `json:"memUsed"`
	MemTotal uint64      `json:"memTotal"`
	Uptime   uint64      `json:"uptime"`
	Loads    []float64   `json:"loads"`
	Tunnels  TunnelTally `json:"tunnels"`
}

type TunnelTally struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Error  int64 `json:"error"`
}

type ServerService struct{}

func (s *ServerService) GetStatus() *SystemStatus {
	status := &SystemStatus{}

	percents, err := cpu.Percent(time.Second, false)
	if err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.CPU = percents[0]
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.MemUsed = memInfo.Used
		status.MemTotal = memInfo.Total
	}

	uptime, err := host.Uptime()
	if err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = uptime
	}

	avg, err := load.Avg()
	if err != nil {
		logger.Warning("get load avg failed:", err)
	} else {
		status.Loads = []float64{avg.Load1, avg.Load5, avg.Load15}
	}

	status.Tunnels = s.tallyTunnels()
	return status
}

func (s *ServerService) tallyTunnels() TunnelTally {
	db := database.GetDB()
	var tally TunnelTally
	db.Model(&model.Tunnel{}).Count(&tally.Total)
	db.Model(&model.Tunnel{}).Where("status = ?", "active").Count(&tally.Active)
	db.Model(&model.Tunnel{}).Where("status = ?", "error").Count(&tally.Error)
	return tally
}
