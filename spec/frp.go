package spec

import (
	"strconv"
)

const frpDefaultBindPort = 7000

type frpAdapter struct{}

func (frpAdapter) Engine() Engine { return EngineFrp }

func (frpAdapter) Encode(in *Intent) (EngineSpec, error) {
	ports, err := ParsePortList(in.Ports)
	if err != nil {
		return nil, err
	}

	bindPort := frpDefaultBindPort
	if p, err := strconv.Atoi(in.ControlPort); err == nil && p > 0 {
		bindPort = p
	}

	localIP := in.TargetHost
	if localIP == "" {
		if in.IPv6Bridge {
			localIP = "::1"
		} else {
			localIP = "127.0.0.1"
		}
	}

	s := EngineSpec{
		"type":      EngineFrp.NormalizeTransport(in.Transport),
		"ports":     ports,
		"bind_port": bindPort,
		"local_ip":  localIP,
	}
	mirrorFirstPort(s, ports)
	if in.Token != "" {
		s["token"] = in.Token
	}
	if in.IPv6Bridge {
		s["use_ipv6"] = true
	}
	return s, nil
}

func (frpAdapter) Decode(s EngineSpec, transport string) *Intent {
	in := &Intent{
		Engine:    EngineFrp,
		Transport: transport,
	}
	if t := s.GetString("type"); t != "" {
		in.Transport = t
	}
	if p, ok := s.GetInt("bind_port"); ok && p > 0 {
		in.ControlPort = strconv.Itoa(p)
	}
	if host := s.GetString("local_ip"); host != "" {
		in.TargetHost = host
	}
	in.Ports = FormatPortList(decodePorts(s))
	in.Token = s.GetString("token")
	in.IPv6Bridge = s.GetBool("use_ipv6")
	return in
}
