package app

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/smitenet/smite-panel/config"
	"github.com/smitenet/smite-panel/cronjob"
	"github.com/smitenet/smite-panel/database"
	"github.com/smitenet/smite-panel/database/model"
	"github.com/smitenet/smite-panel/logger"
	"github.com/smitenet/smite-panel/service"
	"github.com/smitenet/smite-panel/spec"
	"github.com/smitenet/smite-panel/telegram"
	"github.com/smitenet/smite-panel/web"

	"github.com/op/go-logging"
)

type APP struct {
	services *service.ServicesBundle

	webServer *web.Server
	cronJob   *cronjob.CronJob

	telegramConfig *telegram.Config
	isBotStarted   bool
}

func NewApp() *APP {
	return &APP{}
}

func (a *APP) Init() error {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	a.initLog()

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		return err
	}

	a.initTelegramConfig()

	a.cronJob = cronjob.NewCronJob()
	a.webServer = web.NewServer()

	a.services = &service.ServicesBundle{
		ChiselService: service.NewChiselService(),
	}

	// Init Setting
	a.services.SettingService.GetAllSetting()

	return nil
}

func (a *APP) Start() error {
	err := a.cronJob.Start(time.Local)
	if err != nil {
		return err
	}

	err = a.webServer.Start(a.services)
	if err != nil {
		return err
	}

	if a.telegramConfig != nil && a.telegramConfig.Enabled && !a.isBotStarted {
		go telegram.Start(context.Background(), a.telegramConfig, a)
		a.isBotStarted = true
	}

	// Bring back panel-side endpoints for chisel tunnels that were active
	// before the last shutdown.
	tunnels, err := a.services.TunnelService.GetTunnels()
	if err != nil {
		logger.Error("load tunnels for auto-start failed:", err)
		return err
	}
	for i := range tunnels {
		tunnel := &tunnels[i]
		if tunnel.Engine == string(spec.EngineChisel) && tunnel.Status == "active" {
			if err := a.services.ChiselService.Start(tunnel); err != nil {
				logger.Error("auto-start tunnel '", tunnel.Name, "' failed:", err)
			} else {
				logger.Info("tunnel '", tunnel.Name, "' auto-started")
			}
		}
	}

	return nil
}

func (a *APP) Stop() {
	a.cronJob.Stop()
	a.services.ChiselService.StopAll()
	err := a.webServer.Stop()
	if err != nil {
		logger.Warning("stop Web Server err:", err)
	}
}

func (a *APP) initLog() {
	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
}

func (a *APP) initTelegramConfig() {
	file, err := os.ReadFile("telegram_config.json")
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("telegram_config.json not found, Telegram bot is disabled.")
			return
		}
		logger.Warning("Error reading telegram_config.json:", err)
		return
	}

	var cfg telegram.Config
	if err := json.Unmarshal(file, &cfg); err != nil {
		logger.Warning("Error unmarshalling telegram_config.json:", err)
		return
	}
	a.telegramConfig = &cfg
}

func (a *APP) RestartApp() {
	a.Stop()
	err := a.Init()
	if err != nil {
		logger.Error("Error re-initializing app:", err)
		os.Exit(1)
	}
	err = a.Start()
	if err != nil {
		logger.Error("Error re-starting app:", err)
		os.Exit(1)
	}
}

func (a *APP) GetTunnels() ([]model.Tunnel, error) {
	return a.services.TunnelService.GetTunnels()
}

func (a *APP) GetTunnelByName(name string) (*model.Tunnel, error) {
	return a.services.TunnelService.GetTunnelByName(name)
}

func (a *APP) StartTunnel(tunnel *model.Tunnel) error {
	if tunnel.Engine == string(spec.EngineChisel) {
		return a.services.ChiselService.Start(tunnel)
	}
	return a.services.TunnelService.MarkStatus(tunnel.PublicID, "active", "")
}

func (a *APP) StopTunnel(tunnel *model.Tunnel) error {
	if tunnel.Engine == string(spec.EngineChisel) {
		return a.services.ChiselService.Stop(tunnel)
	}
	return a.services.TunnelService.MarkStatus(tunnel.PublicID, "pending", "")
}

func (a *APP) GetStatus() *service.SystemStatus {
	return a.services.ServerService.GetStatus()
}

func (a *APP) GetLogs(count int, level string) []string {
	return logger.GetLogs(count, level)
}

func (a *APP) ExportTunnels() ([]byte, error) {
	return a.services.TunnelService.ExportYAML()
}
