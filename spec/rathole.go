package spec

import (
	"strconv"

	"github.com/smitenet/smite-panel/util"
)

const ratholeDefaultControlPort = 23333

type ratholeAdapter struct{}

func (ratholeAdapter) Engine() Engine { return EngineRathole }

func (ratholeAdapter) Encode(in *Intent) (EngineSpec, error) {
	ports, err := ParsePortList(in.Ports)
	if err != nil {
		return nil, err
	}

	controlPort := ratholeDefaultControlPort
	if p, err := strconv.Atoi(in.ControlPort); err == nil && p > 0 {
		controlPort = p
	}
	transport := EngineRathole.NormalizeTransport(in.Transport)

	s := EngineSpec{
		"transport":   transport,
		"type":        transport,
		"ports":       ports,
		"remote_addr": FormatAddressPort(in.PanelHost, controlPort),
	}
	mirrorFirstPort(s, ports)
	if in.Token != "" {
		s["token"] = in.Token
	}
	if in.IPv6Bridge {
		s["use_ipv6"] = true
		s["local_addr"] = FormatAddressPort(in.ResolvedTargetHost(), ports[0])
	}
	if transport == "ws" {
		// Each ws service needs a distinct identifier on the control channel.
		// Freshly generated, not expected to survive a round trip.
		s["service_name"] = "svc_" + util.RandomLowerAndNum(8)
	}
	return s, nil
}

func (ratholeAdapter) Decode(s EngineSpec, transport string) *Intent {
	in := &Intent{
		Engine:    EngineRathole,
		Transport: transport,
	}
	if t := s.GetString("transport"); t != "" {
		in.Transport = t
	} else if t := s.GetString("type"); t != "" {
		in.Transport = t
	}

	if host, port := ParseAddressPort(s.GetString("remote_addr")); port > 0 {
		in.ControlPort = strconv.Itoa(port)
		in.PanelHost = host
	}
	in.Ports = FormatPortList(decodePorts(s))
	in.Token = s.GetString("token")
	in.IPv6Bridge = s.GetBool("use_ipv6")
	return in
}
