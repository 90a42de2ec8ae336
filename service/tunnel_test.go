package service

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/smitenet/smite-panel/database"
	"github.com/smitenet/smite-panel/spec"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := database.InitDB(dbPath); err != nil {
		t.Fatalf("init db: %v", err)
	}
}

func TestCreateTunnelStoresEncodedSpec(t *testing.T) {
	setupTestDB(t)
	s := TunnelService{}

	tunnel, err := s.CreateTunnel(&spec.Intent{
		Name:       "edge-1",
		Engine:     spec.EngineBackhaul,
		Transport:  "tcp",
		Ports:      "8080,8081",
		TargetHost: "10.0.0.5",
		PanelHost:  "panel.example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tunnel.PublicID == "" {
		t.Fatal("expected a public id")
	}
	if tunnel.Revision != 1 {
		t.Fatalf("revision = %d, want 1", tunnel.Revision)
	}
	if tunnel.Status != "pending" {
		t.Fatalf("status = %q, want pending", tunnel.Status)
	}

	var es spec.EngineSpec
	if err := json.Unmarshal(tunnel.Spec, &es); err != nil {
		t.Fatalf("unmarshal spec: %v", err)
	}
	entries := es.GetStrings("ports")
	if len(entries) != 2 {
		t.Fatalf("ports = %v, want 2 entries", entries)
	}
	if entries[0] != "8080=10.0.0.5:8080" {
		t.Fatalf("first entry = %q", entries[0])
	}
}

func TestCreateTunnelRejectsEmptyPorts(t *testing.T) {
	setupTestDB(t)
	s := TunnelService{}

	_, err := s.CreateTunnel(&spec.Intent{
		Name:   "bad",
		Engine: spec.EngineGost,
		Ports:  "abc, 99999",
	})
	if err == nil {
		t.Fatal("expected error for empty port list")
	}
}

func TestCreateTunnelRejectsPanelAPIPort(t *testing.T) {
	setupTestDB(t)
	s := TunnelService{}

	_, err := s.CreateTunnel(&spec.Intent{
		Name:        "clash",
		Engine:      spec.EngineChisel,
		Transport:   "tcp",
		Ports:       "9000",
		ControlPort: "8000",
		PanelHost:   "panel.example.com",
	})
	if err == nil {
		t.Fatal("expected control port 8000 to be rejected")
	}
}

func TestUpdateTunnelBumpsRevision(t *testing.T) {
	setupTestDB(t)
	s := TunnelService{}

	tunnel, err := s.CreateTunnel(&spec.Intent{
		Name:      "edge-2",
		Engine:    spec.EngineFrp,
		Transport: "tcp",
		Ports:     "8080",
		PanelHost: "panel.example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := s.UpdateTunnel(tunnel.PublicID, &spec.Intent{
		Name:      "edge-2",
		Engine:    spec.EngineFrp,
		Transport: "udp",
		Ports:     "8080,8081",
		PanelHost: "panel.example.com",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Revision != 2 {
		t.Fatalf("revision = %d, want 2", updated.Revision)
	}
	if updated.Transport != "udp" {
		t.Fatalf("transport = %q, want udp", updated.Transport)
	}
}

func TestEditIntentRoundTrip(t *testing.T) {
	setupTestDB(t)
	s := TunnelService{}

	tunnel, err := s.CreateTunnel(&spec.Intent{
		Name:        "edge-3",
		Engine:      spec.EngineRathole,
		Transport:   "tcp",
		Ports:       "8080",
		ControlPort: "23333",
		PanelHost:   "panel.example.com",
		Token:       "secret",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in, err := s.EditIntent(tunnel)
	if err != nil {
		t.Fatalf("edit intent: %v", err)
	}
	if in.Name != "edge-3" {
		t.Fatalf("name = %q", in.Name)
	}
	if in.ControlPort != "23333" {
		t.Fatalf("control port = %q, want 23333", in.ControlPort)
	}
	if in.Token != "secret" {
		t.Fatalf("token = %q", in.Token)
	}
}

func TestExportImportYAML(t *testing.T) {
	setupTestDB(t)
	s := TunnelService{}

	_, err := s.CreateTunnel(&spec.Intent{
		Name:      "exported",
		Engine:    spec.EngineGost,
		Transport: "tcp",
		Ports:     "8080",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	data, err := s.ExportYAML()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	original, err := s.GetTunnelByName("exported")
	if err != nil {
		t.Fatalf("get original: %v", err)
	}
	if err := s.DeleteTunnel(original.PublicID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	count, err := s.ImportYAML(data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if count != 1 {
		t.Fatalf("imported %d tunnels, want 1", count)
	}

	restored, err := s.GetTunnelByName("exported")
	if err != nil {
		t.Fatalf("get restored: %v", err)
	}
	if restored.Engine != "gost" {
		t.Fatalf("engine = %q, want gost", restored.Engine)
	}
}

func TestPortSpreadStable(t *testing.T) {
	a := portSpread("49c6157a-1bfa-4f86-b910-7bd1b2a2d85e")
	b := portSpread("49c6157a-1bfa-4f86-b910-7bd1b2a2d85e")
	if a != b {
		t.Fatalf("spread not stable: %d vs %d", a, b)
	}
	if a < 0 || a > 999 {
		t.Fatalf("spread out of range: %d", a)
	}
}
