package spec

import (
	"strconv"
	"strings"
)

// Backhaul exposes a long tail of tuning parameters split into a
// server-side and a client-side group. Each field is declared once in a
// catalog with its value kind; one generic walk handles both encode and
// decode, so the key set, the types and the sparse-emission rule cannot
// drift apart.
//
// Sparse invariant: a key is emitted only when its value deviates from the
// engine default. Absence means "use engine default", never false or zero.

type optionKind int

const (
	optionNumeric optionKind = iota
	optionBoolean
	optionString
)

type optionField struct {
	key  string
	kind optionKind
}

var backhaulServerOptions = []optionField{
	{"keepalive_period", optionNumeric},
	{"heartbeat", optionNumeric},
	{"channel_size", optionNumeric},
	{"mux_con", optionNumeric},
	{"log_level", optionString},
	{"nodelay", optionBoolean},
	{"skip_optz", optionBoolean},
	{"tls_cert", optionString},
	{"tls_key", optionString},
	{"sniffer", optionBoolean},
	{"sniffer_log", optionString},
	{"web_port", optionNumeric},
	{"proxy_protocol", optionBoolean},
}

var backhaulClientOptions = []optionField{
	{"connection_pool", optionNumeric},
	{"retry_interval", optionNumeric},
	{"dial_timeout", optionNumeric},
	{"keepalive_period", optionNumeric},
	{"log_level", optionString},
	{"nodelay", optionBoolean},
	{"aggressive_pool", optionBoolean},
	{"edge_ip", optionString},
	{"skip_optz", optionBoolean},
}

// AdvancedOptions carries the backhaul tuning fields as the form edits
// them: raw text keyed by option name, one map per side. A missing key
// means the form field was left at its default.
type AdvancedOptions struct {
	Server map[string]string `json:"server,omitempty"`
	Client map[string]string `json:"client,omitempty"`
}

func (o AdvancedOptions) isEmpty() bool {
	return len(o.Server) == 0 && len(o.Client) == 0
}

// encodeOptionGroup walks the catalog and emits only deviating values:
// booleans when true, numerics when the text parses to a number, strings
// when non-blank after trimming. Unknown keys in values are never emitted.
func encodeOptionGroup(catalog []optionField, values map[string]string) EngineSpec {
	if len(values) == 0 {
		return nil
	}
	out := EngineSpec{}
	for _, f := range catalog {
		raw, ok := values[f.key]
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		switch f.kind {
		case optionBoolean:
			if raw == "true" || raw == "1" || raw == "on" {
				out[f.key] = true
			}
		case optionNumeric:
			if n, err := strconv.Atoi(raw); err == nil {
				out[f.key] = n
			}
		case optionString:
			out[f.key] = raw
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// decodeOptionGroup reads stored values back into form text. Numbers are
// stringified for display, booleans become "true"/"false". Absent keys stay
// absent so the form keeps its defaults.
func decodeOptionGroup(catalog []optionField, stored EngineSpec) map[string]string {
	if len(stored) == 0 {
		return nil
	}
	out := map[string]string{}
	for _, f := range catalog {
		if !stored.Has(f.key) {
			continue
		}
		switch f.kind {
		case optionBoolean:
			out[f.key] = strconv.FormatBool(stored.GetBool(f.key))
		default:
			out[f.key] = stored.GetString(f.key)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
