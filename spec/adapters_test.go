package spec

import (
	"reflect"
	"testing"
)

func TestForEngineUnknown(t *testing.T) {
	if _, err := ForEngine(Engine("wireguard")); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestGostEncodeDecode(t *testing.T) {
	s, err := Encode(&Intent{Engine: EngineGost, Transport: "tcp", Ports: "8080,8081"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := s.GetString("remote_ip"); got != "127.0.0.1" {
		t.Errorf("remote_ip = %q", got)
	}
	if got := s.GetInts("ports"); !reflect.DeepEqual(got, []int{8080, 8081}) {
		t.Errorf("ports = %v", got)
	}
	// first port mirrored into the legacy scalars
	if p, _ := s.GetInt("listen_port"); p != 8080 {
		t.Errorf("listen_port = %d", p)
	}
	if p, _ := s.GetInt("remote_port"); p != 8080 {
		t.Errorf("remote_port = %d", p)
	}

	in, err := Decode(EngineGost, s, "tcp")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Ports != "8080,8081" || in.TargetHost != "127.0.0.1" {
		t.Errorf("decoded intent: ports=%q target=%q", in.Ports, in.TargetHost)
	}
}

func TestGostDecodeLegacyScalarFallback(t *testing.T) {
	in, err := Decode(EngineGost, EngineSpec{"listen_port": float64(9000)}, "tcp")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Ports != "9000" {
		t.Errorf("ports = %q; want legacy scalar fallback 9000", in.Ports)
	}
}

func TestRatholeRoundTrip(t *testing.T) {
	s, err := Encode(&Intent{
		Engine:      EngineRathole,
		Transport:   "tcp",
		Ports:       "8080",
		ControlPort: "23333",
		PanelHost:   "panel.example.com",
		Token:       "secret",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := s.GetString("remote_addr"); got != "panel.example.com:23333" {
		t.Fatalf("remote_addr = %q", got)
	}

	in, err := Decode(EngineRathole, s, "tcp")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.ControlPort != "23333" {
		t.Errorf("control port = %q; want 23333", in.ControlPort)
	}
	if in.PanelHost != "panel.example.com" || in.Token != "secret" {
		t.Errorf("decoded intent: host=%q token=%q", in.PanelHost, in.Token)
	}
}

func TestRatholeDefaultControlPort(t *testing.T) {
	s, err := Encode(&Intent{Engine: EngineRathole, Transport: "tcp", Ports: "8080", PanelHost: "panel.example.com"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := s.GetString("remote_addr"); got != "panel.example.com:23333" {
		t.Errorf("remote_addr = %q; want default control port 23333", got)
	}
}

func TestRatholeWsServiceName(t *testing.T) {
	s, err := Encode(&Intent{Engine: EngineRathole, Transport: "ws", Ports: "8080", PanelHost: "p"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if s.GetString("service_name") == "" {
		t.Error("ws transport should carry a generated service_name")
	}
}

func TestChiselControlPortDerived(t *testing.T) {
	s, err := Encode(&Intent{Engine: EngineChisel, Transport: "tcp", Ports: "8080", PanelHost: "panel"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if p, _ := s.GetInt("control_port"); p != 18080 {
		t.Errorf("control_port = %d; want 18080", p)
	}
	if p, _ := s.GetInt("server_port"); p != 8080 {
		t.Errorf("server_port = %d", p)
	}

	in, err := Decode(EngineChisel, s, "tcp")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.ControlPort != "18080" {
		t.Errorf("decoded control port = %q; want verbatim 18080", in.ControlPort)
	}
}

func TestChiselExplicitControlPort(t *testing.T) {
	s, err := Encode(&Intent{Engine: EngineChisel, Transport: "tcp", Ports: "8080", ControlPort: "9999"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if p, _ := s.GetInt("control_port"); p != 9999 {
		t.Errorf("control_port = %d; want explicit 9999", p)
	}
}

func TestFrpTokenOmittedWhenBlank(t *testing.T) {
	s, err := Encode(&Intent{Engine: EngineFrp, Transport: "tcp", Ports: "8080"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if s.Has("token") {
		t.Error("blank token must not be serialized at all")
	}
	if p, _ := s.GetInt("bind_port"); p != 7000 {
		t.Errorf("bind_port = %d; want default 7000", p)
	}
	if got := s.GetString("local_ip"); got != "127.0.0.1" {
		t.Errorf("local_ip = %q", got)
	}

	s2, err := Encode(&Intent{Engine: EngineFrp, Transport: "tcp", Ports: "8080", Token: "tok"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	in, err := Decode(EngineFrp, s2, "tcp")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Token != "tok" {
		t.Errorf("decoded token = %q", in.Token)
	}
}

func TestFrpTransportNormalized(t *testing.T) {
	s, err := Encode(&Intent{Engine: EngineFrp, Transport: "grpc", Ports: "8080"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := s.GetString("type"); got != "tcp" {
		t.Errorf("type = %q; frp only understands tcp/udp", got)
	}
}

func TestEncodeRejectsEmptyPorts(t *testing.T) {
	for _, e := range []Engine{EngineGost, EngineRathole, EngineChisel, EngineFrp} {
		if _, err := Encode(&Intent{Engine: e, Transport: "tcp", Ports: "abc"}); err != ErrNoPorts {
			t.Errorf("engine %s: expected ErrNoPorts, got %v", e, err)
		}
	}
}

func TestDecodeMalformedSpecDegrades(t *testing.T) {
	// Decode must always produce something editable, even from junk.
	for _, e := range Engines() {
		in, err := Decode(e, EngineSpec{"remote_addr": "???", "ports": "not-an-array"}, "tcp")
		if err != nil {
			t.Fatalf("engine %s: decode returned error: %v", e, err)
		}
		if in == nil || in.Engine != e {
			t.Errorf("engine %s: decode produced %+v", e, in)
		}
	}
}

func TestIntentIPv6BridgeDefaults(t *testing.T) {
	in := &Intent{IPv6Bridge: true}
	if got := in.ResolvedTargetHost(); got != "::1" {
		t.Errorf("bridged target host = %q; want ::1", got)
	}
	in.IPv6Bridge = false
	if got := in.ResolvedTargetHost(); got != "127.0.0.1" {
		t.Errorf("target host = %q; want 127.0.0.1", got)
	}
}
