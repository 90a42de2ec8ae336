package spec

import (
	"strconv"
)

// Chisel's control channel rides on HTTP, the server listens on a dedicated
// port derived from the first forwarded port when not set explicitly.
const chiselControlPortOffset = 10000

type chiselAdapter struct{}

func (chiselAdapter) Engine() Engine { return EngineChisel }

func (chiselAdapter) Encode(in *Intent) (EngineSpec, error) {
	ports, err := ParsePortList(in.Ports)
	if err != nil {
		return nil, err
	}

	controlPort := ports[0] + chiselControlPortOffset
	if p, err := strconv.Atoi(in.ControlPort); err == nil && p > 0 {
		controlPort = p
	}

	s := EngineSpec{
		"type":         EngineChisel.NormalizeTransport(in.Transport),
		"ports":        ports,
		"control_port": controlPort,
		"server_port":  ports[0],
		"panel_host":   in.PanelHost,
	}
	mirrorFirstPort(s, ports)
	if in.Token != "" {
		s["auth"] = in.Token
	}
	if in.IPv6Bridge {
		s["use_ipv6"] = true
	}
	return s, nil
}

func (chiselAdapter) Decode(s EngineSpec, transport string) *Intent {
	in := &Intent{
		Engine:    EngineChisel,
		Transport: transport,
	}
	if t := s.GetString("type"); t != "" {
		in.Transport = t
	}
	if p, ok := s.GetInt("control_port"); ok && p > 0 {
		in.ControlPort = strconv.Itoa(p)
	}
	in.PanelHost = s.GetString("panel_host")
	in.Ports = FormatPortList(decodePorts(s))
	in.Token = s.GetString("auth")
	in.IPv6Bridge = s.GetBool("use_ipv6")
	return in
}
