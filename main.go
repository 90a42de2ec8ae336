package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/smitenet/smite-panel/app"
	"github.com/smitenet/smite-panel/cmd"
	"github.com/smitenet/smite-panel/logger"
)

func main() {
	if cmd.ParseCmd() {
		return
	}

	a := app.NewApp()
	if err := a.Init(); err != nil {
		logger.Error("init app failed:", err)
		os.Exit(1)
	}
	if err := a.Start(); err != nil {
		logger.Error("start app failed:", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals. SIGHUP restarts the app in place.
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for {
		sig := <-sigCh
		switch sig {
		case syscall.SIGHUP:
			logger.Info("received SIGHUP, restarting...")
			a.RestartApp()
		default:
			a.Stop()
			logger.Info("shutting down")
			return
		}
	}
}
