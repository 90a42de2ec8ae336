package spec

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildPortEntriesFromSimplePorts(t *testing.T) {
	in := &Intent{Engine: EngineBackhaul, Ports: "8080,8081"}
	got := BuildPortEntries(in, "127.0.0.1")
	want := []string{"8080=127.0.0.1:8080", "8081=127.0.0.1:8081"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %v; want %v", got, want)
	}
}

func TestBuildPortEntriesListenIPPrefix(t *testing.T) {
	in := &Intent{Engine: EngineBackhaul, Ports: "8080", ListenIP: "10.0.0.5"}
	got := BuildPortEntries(in, "127.0.0.1")
	want := []string{"10.0.0.5:8080=127.0.0.1:8080"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %v; want %v", got, want)
	}

	// 0.0.0.0 is the wildcard default and never written as a prefix.
	in.ListenIP = "0.0.0.0"
	got = BuildPortEntries(in, "127.0.0.1")
	if got[0] != "8080=127.0.0.1:8080" {
		t.Errorf("entries = %v; wildcard listen ip must not be prefixed", got)
	}
}

func TestBuildPortEntriesCustomBlockWins(t *testing.T) {
	in := &Intent{
		Engine:        EngineBackhaul,
		Ports:         "8080,8081",
		CustomEntries: "443=10.0.0.1:8443\n\n  80=10.0.0.1:8080  \n",
	}
	got := BuildPortEntries(in, "127.0.0.1")
	want := []string{"443=10.0.0.1:8443", "80=10.0.0.1:8080"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("custom entries must fully replace the simple list, got %v", got)
	}
}

func TestBuildPortEntriesFallbackNeverEmpty(t *testing.T) {
	got := BuildPortEntries(&Intent{Engine: EngineBackhaul}, "127.0.0.1")
	if len(got) != 1 || got[0] != "3080=127.0.0.1:3080" {
		t.Errorf("fallback entries = %v", got)
	}

	got = BuildPortEntries(&Intent{Engine: EngineBackhaul, PublicPort: "8443", TargetPort: "9443"}, "127.0.0.1")
	if len(got) != 1 || got[0] != "8443=127.0.0.1:9443" {
		t.Errorf("fallback entries = %v", got)
	}
}

func TestPortEntryPublicPort(t *testing.T) {
	cases := []struct {
		entry string
		want  int
	}{
		{"8080=127.0.0.1:8080", 8080},
		{"10.0.0.5:443=127.0.0.1:8443", 443},
		{"9000", 9000},
		{"garbage", 0},
	}
	for _, c := range cases {
		if got := PortEntryPublicPort(c.entry); got != c.want {
			t.Errorf("PortEntryPublicPort(%q) = %d; want %d", c.entry, got, c.want)
		}
	}
}

func TestBackhaulEncode(t *testing.T) {
	s, err := Encode(&Intent{
		Engine:      EngineBackhaul,
		Transport:   "tcp",
		Ports:       "8080,8081",
		ControlPort: "4000",
		PanelHost:   "panel.example.com",
		Token:       "secret",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := s.GetString("bind_addr"); got != "0.0.0.0:4000" {
		t.Errorf("bind_addr = %q", got)
	}
	if got := s.GetString("remote_addr"); got != "panel.example.com:4000" {
		t.Errorf("remote_addr = %q", got)
	}
	entries := s.GetStrings("ports")
	if !reflect.DeepEqual(entries, []string{"8080=127.0.0.1:8080", "8081=127.0.0.1:8081"}) {
		t.Errorf("ports = %v", entries)
	}
	if p, _ := s.GetInt("listen_port"); p != 8080 {
		t.Errorf("listen_port = %d; want representative public port", p)
	}
	if got := s.GetString("token"); got != "secret" {
		t.Errorf("token = %q", got)
	}
}

func TestBackhaulControlPortFallbackChain(t *testing.T) {
	cases := []struct {
		name   string
		intent Intent
		want   int
	}{
		{"explicit control", Intent{ControlPort: "4000", PublicPort: "5000", TargetPort: "6000"}, 4000},
		{"public port", Intent{PublicPort: "5000", TargetPort: "6000"}, 5000},
		{"target port", Intent{TargetPort: "6000"}, 6000},
		{"default", Intent{}, 3080},
	}
	for _, c := range cases {
		c.intent.Engine = EngineBackhaul
		c.intent.Transport = "tcp"
		s, err := Encode(&c.intent)
		if err != nil {
			t.Fatalf("%s: encode: %v", c.name, err)
		}
		if p, _ := s.GetInt("control_port"); p != c.want {
			t.Errorf("%s: control_port = %d; want %d", c.name, p, c.want)
		}
	}
}

func TestBackhaulRemoteAddrOverride(t *testing.T) {
	s, err := Encode(&Intent{
		Engine:     EngineBackhaul,
		Transport:  "tcp",
		Ports:      "8080",
		PanelHost:  "panel.example.com",
		RemoteAddr: "edge.example.net:9000",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := s.GetString("remote_addr"); got != "edge.example.net:9000" {
		t.Errorf("remote_addr = %q; explicit override must win", got)
	}
}

func TestBackhaulDecode(t *testing.T) {
	s := EngineSpec{
		"transport":   "wsmux",
		"bind_addr":   "0.0.0.0:4000",
		"remote_addr": "panel.example.com:4000",
		"target_addr": "10.0.0.9:8443",
		"ports":       []interface{}{"443=10.0.0.9:8443", "80=10.0.0.9:8080"},
		"token":       "secret",
	}
	in, err := Decode(EngineBackhaul, s, "tcp")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Transport != "wsmux" {
		t.Errorf("transport = %q", in.Transport)
	}
	if in.ControlPort != "4000" {
		t.Errorf("control port = %q; want suffix of bind_addr", in.ControlPort)
	}
	if in.TargetHost != "10.0.0.9" || in.TargetPort != "8443" {
		t.Errorf("target = %q:%q", in.TargetHost, in.TargetPort)
	}
	wantEntries := "443=10.0.0.9:8443\n80=10.0.0.9:8080"
	if in.CustomEntries != wantEntries {
		t.Errorf("custom entries = %q; want verbatim restore", in.CustomEntries)
	}
	if in.PublicPort != "443" {
		t.Errorf("public port = %q; want representative from first entry", in.PublicPort)
	}
}

func TestBackhaulRoundTrip(t *testing.T) {
	orig := &Intent{
		Engine:      EngineBackhaul,
		Transport:   "tcp",
		Ports:       "8080,8081",
		ControlPort: "4000",
		PanelHost:   "panel.example.com",
		Token:       "secret",
		Advanced: AdvancedOptions{
			Server: map[string]string{"nodelay": "true", "channel_size": "2048"},
			Client: map[string]string{"connection_pool": "8"},
		},
	}
	s1, err := Encode(orig)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	in, err := Decode(EngineBackhaul, s1, "tcp")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s2, err := Encode(in)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}

	// Semantically equivalent: same entries, addresses and options.
	if !reflect.DeepEqual(s1.GetStrings("ports"), s2.GetStrings("ports")) {
		t.Errorf("ports drifted: %v vs %v", s1.GetStrings("ports"), s2.GetStrings("ports"))
	}
	for _, key := range []string{"transport", "bind_addr", "remote_addr", "token"} {
		if s1.GetString(key) != s2.GetString(key) {
			t.Errorf("%s drifted: %q vs %q", key, s1.GetString(key), s2.GetString(key))
		}
	}
	if !reflect.DeepEqual(s1.GetMap("server_options"), s2.GetMap("server_options")) {
		t.Errorf("server options drifted: %v vs %v", s1.GetMap("server_options"), s2.GetMap("server_options"))
	}
}

func TestBackhaulAdapterIgnoresForeignKeys(t *testing.T) {
	s, err := Encode(&Intent{Engine: EngineBackhaul, Transport: "tcp", Ports: "8080"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for key := range s {
		if strings.HasPrefix(key, "local_ip") || key == "bind_port" {
			t.Errorf("backhaul spec leaked frp key %q", key)
		}
	}
}
