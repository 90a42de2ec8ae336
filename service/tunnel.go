package service

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/smitenet/smite-panel/database"
	"github.com/smitenet/smite-panel/database/model"
	"github.com/smitenet/smite-panel/spec"
	"github.com/smitenet/smite-panel/util/common"

	"github.com/gofrs/uuid/v5"
	"gopkg.in/yaml.v3"
)

// The panel API itself listens here; engines must not claim it as a
// control port.
const panelAPIPort = 8000

type TunnelService struct {
	SettingService
}

func (s *TunnelService) GetTunnels() ([]model.Tunnel, error) {
	db := database.GetDB()
	var tunnels []model.Tunnel
	err := db.Find(&tunnels).Error
	return tunnels, err
}

func (s *TunnelService) GetTunnel(publicID string) (*model.Tunnel, error) {
	db := database.GetDB()
	var tunnel model.Tunnel
	err := db.Where("public_id = ?", publicID).First(&tunnel).Error
	if err != nil {
		return nil, err
	}
	return &tunnel, nil
}

func (s *TunnelService) GetTunnelByName(name string) (*model.Tunnel, error) {
	db := database.GetDB()
	var tunnel model.Tunnel
	err := db.Where("name = ?", name).First(&tunnel).Error
	if err != nil {
		return nil, err
	}
	return &tunnel, nil
}

// CreateTunnel encodes the intent through the engine adapter and persists
// the resulting spec. The intent is rejected before anything is stored when
// it cannot produce a valid spec.
func (s *TunnelService) CreateTunnel(in *spec.Intent) (*model.Tunnel, error) {
	if in.Name == "" {
		return nil, common.NewError("tunnel name is required")
	}
	if _, err := spec.ParseEngine(string(in.Engine)); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	publicID := id.String()

	s.fillDefaults(in, publicID)

	encoded, err := s.encode(in)
	if err != nil {
		return nil, err
	}

	tunnel := &model.Tunnel{
		PublicID:  publicID,
		Name:      in.Name,
		Engine:    string(in.Engine),
		Transport: in.Transport,
		Spec:      encoded,
		Status:    "pending",
		Revision:  1,
	}
	db := database.GetDB()
	if err := db.Create(tunnel).Error; err != nil {
		return nil, err
	}
	return tunnel, nil
}

// UpdateTunnel re-encodes the edited intent and bumps the revision.
func (s *TunnelService) UpdateTunnel(publicID string, in *spec.Intent) (*model.Tunnel, error) {
	tunnel, err := s.GetTunnel(publicID)
	if err != nil {
		return nil, err
	}

	s.fillDefaults(in, publicID)

	encoded, err := s.encode(in)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		tunnel.Name = in.Name
	}
	tunnel.Engine = string(in.Engine)
	tunnel.Transport = in.Transport
	tunnel.Spec = encoded
	tunnel.Revision++
	tunnel.Status = "pending"
	tunnel.ErrorMessage = ""

	db := database.GetDB()
	if err := db.Save(tunnel).Error; err != nil {
		return nil, err
	}
	return tunnel, nil
}

func (s *TunnelService) DeleteTunnel(publicID string) error {
	db := database.GetDB()
	return db.Unscoped().Where("public_id = ?", publicID).Delete(&model.Tunnel{}).Error
}

func (s *TunnelService) MarkStatus(publicID string, status string, errorMessage string) error {
	db := database.GetDB()
	return db.Model(&model.Tunnel{}).Where("public_id = ?", publicID).
		Updates(map[string]interface{}{"status": status, "error_message": errorMessage}).Error
}

// EditIntent reconstructs the editable intent from a stored tunnel for the
// edit form. Decoding never fails; a spec written by an older panel still
// yields an editable intent with defaults filled in.
func (s *TunnelService) EditIntent(tunnel *model.Tunnel) (*spec.Intent, error) {
	engine, err := spec.ParseEngine(tunnel.Engine)
	if err != nil {
		return nil, err
	}
	es, err := s.unmarshalSpec(tunnel.Spec)
	if err != nil {
		return nil, err
	}
	in, err := spec.Decode(engine, es, tunnel.Transport)
	if err != nil {
		return nil, err
	}
	in.Name = tunnel.Name
	return in, nil
}

func (s *TunnelService) encode(in *spec.Intent) (json.RawMessage, error) {
	encoded, err := spec.Encode(in)
	if err != nil {
		return nil, err
	}
	if port, ok := encoded.GetInt("control_port"); ok && port == panelAPIPort {
		return nil, common.NewErrorf("control port %d is reserved for the panel API", panelAPIPort)
	}
	if port, ok := encoded.GetInt("bind_port"); ok && port == panelAPIPort {
		return nil, common.NewErrorf("bind port %d is reserved for the panel API", panelAPIPort)
	}
	return json.Marshal(encoded)
}

func (s *TunnelService) unmarshalSpec(raw json.RawMessage) (spec.EngineSpec, error) {
	var es spec.EngineSpec
	if len(raw) == 0 {
		return spec.EngineSpec{}, nil
	}
	if err := json.Unmarshal(raw, &es); err != nil {
		return nil, err
	}
	return es, nil
}

// fillDefaults injects the panel-level inputs the compiler needs but the
// form does not carry: the externally-resolved panel hostname and, for
// engines that share one default control port, a per-tunnel spread so two
// tunnels created without an explicit port do not collide.
func (s *TunnelService) fillDefaults(in *spec.Intent, publicID string) {
	if in.PanelHost == "" {
		in.PanelHost = s.SettingService.GetPanelHost()
	}
	if in.ControlPort != "" {
		return
	}
	switch in.Engine {
	case spec.EngineFrp:
		in.ControlPort = strconv.Itoa(7000 + portSpread(publicID))
	case spec.EngineBackhaul:
		if in.PublicPort == "" && in.TargetPort == "" {
			in.ControlPort = strconv.Itoa(3080 + portSpread(publicID))
		}
	}
}

// portSpread hashes the tunnel ID into a stable 0..999 offset.
func portSpread(publicID string) int {
	sum := md5.Sum([]byte(publicID))
	n, err := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 64)
	if err != nil {
		return 0
	}
	return int(n % 1000)
}

type tunnelExport struct {
	Name      string                 `yaml:"name"`
	Engine    string                 `yaml:"engine"`
	Transport string                 `yaml:"transport"`
	Spec      map[string]interface{} `yaml:"spec"`
}

// ExportYAML renders all tunnel definitions for backup or migration.
func (s *TunnelService) ExportYAML() ([]byte, error) {
	tunnels, err := s.GetTunnels()
	if err != nil {
		return nil, err
	}
	exports := make([]tunnelExport, 0, len(tunnels))
	for _, t := range tunnels {
		es, err := s.unmarshalSpec(t.Spec)
		if err != nil {
			return nil, err
		}
		exports = append(exports, tunnelExport{
			Name:      t.Name,
			Engine:    t.Engine,
			Transport: t.Transport,
			Spec:      es,
		})
	}
	return yaml.Marshal(exports)
}

// ImportYAML recreates tunnels from an export. Specs are taken as stored;
// each one is round-tripped through its adapter so a corrupt entry is
// rejected instead of persisted.
func (s *TunnelService) ImportYAML(data []byte) (int, error) {
	var exports []tunnelExport
	if err := yaml.Unmarshal(data, &exports); err != nil {
		return 0, err
	}

	db := database.GetDB()
	count := 0
	for _, e := range exports {
		engine, err := spec.ParseEngine(e.Engine)
		if err != nil {
			return count, err
		}
		in, err := spec.Decode(engine, spec.EngineSpec(e.Spec), e.Transport)
		if err != nil {
			return count, err
		}
		in.Name = e.Name
		encoded, err := s.encode(in)
		if err != nil {
			return count, common.NewErrorf("tunnel %q: %v", e.Name, err)
		}

		id, err := uuid.NewV4()
		if err != nil {
			return count, err
		}
		tunnel := &model.Tunnel{
			PublicID:  id.String(),
			Name:      e.Name,
			Engine:    e.Engine,
			Transport: in.Transport,
			Spec:      encoded,
			Status:    "pending",
			Revision:  1,
		}
		if err := db.Create(tunnel).Error; err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
