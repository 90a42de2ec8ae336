package spec

import (
	"reflect"
	"testing"
)

func TestEncodeOptionsSparse(t *testing.T) {
	got := encodeOptionGroup(backhaulServerOptions, map[string]string{
		"nodelay":      "false", // default, omitted
		"sniffer":      "true",
		"channel_size": "2048",
		"heartbeat":    "not-a-number", // unparseable numeric, omitted
		"log_level":    "  ",           // blank string, omitted
		"tls_cert":     "/etc/ssl/cert.pem",
		"bogus_key":    "1", // not in the catalog, never emitted
	})
	want := EngineSpec{
		"sniffer":      true,
		"channel_size": 2048,
		"tls_cert":     "/etc/ssl/cert.pem",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("encoded options = %v; want %v", got, want)
	}
}

func TestEncodeOptionsAllDefaultsYieldsNil(t *testing.T) {
	got := encodeOptionGroup(backhaulClientOptions, map[string]string{
		"nodelay":         "false",
		"aggressive_pool": "",
	})
	if got != nil {
		t.Errorf("expected nil for all-default options, got %v", got)
	}
}

func TestDecodeOptions(t *testing.T) {
	got := decodeOptionGroup(backhaulClientOptions, EngineSpec{
		"connection_pool": float64(8), // numbers arrive as float64 from JSON
		"nodelay":         true,
		"edge_ip":         "188.114.96.0",
		"unknown":         "ignored",
	})
	want := map[string]string{
		"connection_pool": "8",
		"nodelay":         "true",
		"edge_ip":         "188.114.96.0",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded options = %v; want %v", got, want)
	}
}

func TestDecodeOptionsAbsentStaysAbsent(t *testing.T) {
	if got := decodeOptionGroup(backhaulServerOptions, nil); got != nil {
		t.Errorf("expected nil for empty stored options, got %v", got)
	}
}

func TestOptionCatalogsDisjointFromCore(t *testing.T) {
	// The option mapper must never shadow a top-level spec key.
	reserved := map[string]bool{"ports": true, "bind_addr": true, "remote_addr": true, "token": true, "transport": true}
	for _, f := range append(append([]optionField{}, backhaulServerOptions...), backhaulClientOptions...) {
		if reserved[f.key] {
			t.Errorf("option key %q collides with a core spec key", f.key)
		}
	}
}
