package spec

// gostAdapter handles the passthrough engine: the panel side forwards the
// listed ports straight to the target, no control channel involved.
type gostAdapter struct{}

func (gostAdapter) Engine() Engine { return EngineGost }

func (gostAdapter) Encode(in *Intent) (EngineSpec, error) {
	ports, err := ParsePortList(in.Ports)
	if err != nil {
		return nil, err
	}

	s := EngineSpec{
		"type":      EngineGost.NormalizeTransport(in.Transport),
		"ports":     ports,
		"remote_ip": in.ResolvedTargetHost(),
	}
	mirrorFirstPort(s, ports)
	return s, nil
}

func (gostAdapter) Decode(s EngineSpec, transport string) *Intent {
	in := &Intent{
		Engine:    EngineGost,
		Transport: transport,
	}
	if t := s.GetString("type"); t != "" {
		in.Transport = t
	}
	if host := s.GetString("remote_ip"); host != "" {
		in.TargetHost = host
	}
	in.Ports = FormatPortList(decodePorts(s))
	return in
}
