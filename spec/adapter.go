package spec

import (
	"github.com/smitenet/smite-panel/util/common"
)

// Adapter is the encode/decode pair responsible for one engine's spec
// shape. Encode rejects invalid intents instead of producing a partial
// spec; Decode never fails and degrades missing or malformed keys to
// documented defaults, because the edit form must always open, even on a
// spec written by a different version of the panel.
//
// Decode receives the previously-selected transport because some engines
// store transport only implicitly.
type Adapter interface {
	Engine() Engine
	Encode(in *Intent) (EngineSpec, error)
	Decode(s EngineSpec, transport string) *Intent
}

var adapters = map[Engine]Adapter{
	EngineGost:     gostAdapter{},
	EngineRathole:  ratholeAdapter{},
	EngineChisel:   chiselAdapter{},
	EngineFrp:      frpAdapter{},
	EngineBackhaul: backhaulAdapter{},
}

// ForEngine selects the adapter for an engine. An unknown engine is a
// contract violation by the caller, the enumerated Engine type should have
// prevented it.
func ForEngine(e Engine) (Adapter, error) {
	a, ok := adapters[e]
	if !ok {
		return nil, common.NewError("no adapter for engine: ", string(e))
	}
	return a, nil
}

// Encode dispatches to the adapter selected by the intent's engine.
func Encode(in *Intent) (EngineSpec, error) {
	a, err := ForEngine(in.Engine)
	if err != nil {
		return nil, err
	}
	return a.Encode(in)
}

// Decode dispatches to the adapter for the given engine.
func Decode(e Engine, s EngineSpec, transport string) (*Intent, error) {
	a, err := ForEngine(e)
	if err != nil {
		return nil, err
	}
	return a.Decode(s, transport), nil
}

// mirrorFirstPort writes the legacy single-port projection of the
// authoritative ports array. Older spec readers expect listen_port and
// remote_port scalars.
func mirrorFirstPort(s EngineSpec, ports []int) {
	if len(ports) == 0 {
		return
	}
	s["listen_port"] = ports[0]
	s["remote_port"] = ports[0]
}

// decodePorts restores the port list from the authoritative array, falling
// back to the legacy scalars when no array was stored.
func decodePorts(s EngineSpec) []int {
	if ports := s.GetInts("ports"); len(ports) > 0 {
		return ports
	}
	if p, ok := s.GetInt("listen_port"); ok && p > 0 {
		return []int{p}
	}
	if p, ok := s.GetInt("remote_port"); ok && p > 0 {
		return []int{p}
	}
	return nil
}
