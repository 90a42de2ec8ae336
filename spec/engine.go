package spec

import (
	"github.com/smitenet/smite-panel/util/common"
)

// Engine identifies one of the supported tunnel cores. Every engine has its
// own configuration schema, produced and consumed by the matching Adapter.
type Engine string

const (
	EngineGost     Engine = "gost"
	EngineRathole  Engine = "rathole"
	EngineChisel   Engine = "chisel"
	EngineFrp      Engine = "frp"
	EngineBackhaul Engine = "backhaul"
)

// Engines returns all supported engines in display order.
func Engines() []Engine {
	return []Engine{
		EngineGost,
		EngineRathole,
		EngineChisel,
		EngineFrp,
		EngineBackhaul,
	}
}

// ParseEngine validates an engine identifier coming from stored data or an
// API request.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case EngineGost, EngineRathole, EngineChisel, EngineFrp, EngineBackhaul:
		return Engine(s), nil
	}
	return "", common.NewError("unknown engine: ", s)
}

// Transports returns the transport values the engine accepts.
func (e Engine) Transports() []string {
	switch e {
	case EngineGost:
		return []string{"tcp", "udp", "grpc", "tcpmux"}
	case EngineRathole:
		return []string{"tcp", "ws"}
	case EngineChisel:
		return []string{"tcp"}
	case EngineFrp:
		return []string{"tcp", "udp"}
	case EngineBackhaul:
		return []string{"tcp", "udp", "ws", "wsmux", "tcpmux"}
	}
	return nil
}

// NormalizeTransport clamps a transport value to one the engine accepts,
// falling back to the engine's first transport.
func (e Engine) NormalizeTransport(transport string) string {
	accepted := e.Transports()
	for _, t := range accepted {
		if t == transport {
			return transport
		}
	}
	return accepted[0]
}

func (e Engine) DisplayName() string {
	switch e {
	case EngineGost:
		return "GOST"
	case EngineRathole:
		return "Rathole"
	case EngineChisel:
		return "Chisel"
	case EngineFrp:
		return "FRP"
	case EngineBackhaul:
		return "Backhaul"
	}
	return string(e)
}
