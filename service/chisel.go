package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/smitenet/smite-panel/database/model"
	"github.com/smitenet/smite-panel/logger"
	"github.com/smitenet/smite-panel/spec"
	"github.com/smitenet/smite-panel/util/common"

	chserver "github.com/jpillora/chisel/server"
)

// ChiselService runs the panel-side chisel endpoint for tunnels compiled
// to the chisel engine. Each active tunnel gets an embedded reverse server
// listening on the control port from its spec.
type ChiselService struct {
	TunnelService

	activeServers map[string]context.CancelFunc
	mu            sync.Mutex
}

func NewChiselService() *ChiselService {
	return &ChiselService{
		activeServers: make(map[string]context.CancelFunc),
	}
}

func (s *ChiselService) IsRunning(publicID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.activeServers[publicID]
	return exists
}

func (s *ChiselService) ActiveIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.activeServers))
	for id := range s.activeServers {
		ids = append(ids, id)
	}
	return ids
}

// Start launches the embedded chisel server for one tunnel. The control
// port and auth come from the stored spec; anything else in the record is
// client-side and ignored here.
func (s *ChiselService) Start(tunnel *model.Tunnel) error {
	if tunnel.Engine != string(spec.EngineChisel) {
		return common.NewErrorf("tunnel %s uses engine %s, not chisel", tunnel.PublicID, tunnel.Engine)
	}

	es, err := s.unmarshalSpec(tunnel.Spec)
	if err != nil {
		return err
	}
	controlPort, ok := es.GetInt("control_port")
	if !ok || controlPort <= 0 {
		return common.NewErrorf("tunnel %s has no control port", tunnel.PublicID)
	}

	s.mu.Lock()
	if _, exists := s.activeServers[tunnel.PublicID]; exists {
		s.mu.Unlock()
		return common.NewErrorf("tunnel %s is already running", tunnel.Name)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.activeServers[tunnel.PublicID] = cancel
	s.mu.Unlock()

	auth := es.GetString("auth")
	server, err := chserver.NewServer(&chserver.Config{
		Reverse:   true,
		Auth:      auth,
		KeepAlive: 25 * time.Second,
	})
	if err != nil {
		s.drop(tunnel.PublicID)
		return common.NewErrorf("create chisel server for %s: %v", tunnel.Name, err)
	}

	publicID := tunnel.PublicID
	name := tunnel.Name
	go func() {
		defer s.drop(publicID)

		logger.Infof("chisel server for %s listening on :%d", name, controlPort)
		runErr := server.StartContext(ctx, "0.0.0.0", strconv.Itoa(controlPort))
		if runErr == nil {
			runErr = server.Wait()
		}
		if runErr != nil && runErr != context.Canceled {
			logger.Errorf("chisel server for %s exited: %v", name, runErr)
			if err := s.MarkStatus(publicID, "error", runErr.Error()); err != nil {
				logger.Warning("update tunnel status failed:", err)
			}
			return
		}
		logger.Infof("chisel server for %s stopped", name)
	}()

	return s.MarkStatus(publicID, "active", "")
}

func (s *ChiselService) Stop(tunnel *model.Tunnel) error {
	s.mu.Lock()
	cancel, exists := s.activeServers[tunnel.PublicID]
	s.mu.Unlock()
	if exists {
		cancel()
	}
	return s.MarkStatus(tunnel.PublicID, "pending", "")
}

func (s *ChiselService) StopAll() {
	for _, id := range s.ActiveIDs() {
		s.mu.Lock()
		cancel, exists := s.activeServers[id]
		s.mu.Unlock()
		if exists {
			cancel()
		}
	}
}

func (s *ChiselService) drop(publicID string) {
	s.mu.Lock()
	delete(s.activeServers, publicID)
	s.mu.Unlock()
}
