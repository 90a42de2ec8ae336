package spec

import (
	"fmt"
	"strconv"
	"strings"
)

const backhaulDefaultControlPort = 3080

// backhaulAdapter is the most involved adapter. Public ports are not a flat
// integer list but mapping entries of the grammar
//
//	[listenIp:]publicPort=targetHost:targetPort
//
// either written verbatim by the operator in a multi-line field, or
// synthesized from the simple port list. A non-blank custom block fully
// replaces the simple list, the two never mix.
type backhaulAdapter struct{}

func (backhaulAdapter) Engine() Engine { return EngineBackhaul }

func (backhaulAdapter) Encode(in *Intent) (EngineSpec, error) {
	transport := EngineBackhaul.NormalizeTransport(in.Transport)
	targetHost := in.ResolvedTargetHost()

	controlPort := firstPositive(
		atoiOrZero(in.ControlPort),
		atoiOrZero(in.PublicPort),
		atoiOrZero(in.TargetPort),
		backhaulDefaultControlPort,
	)

	entries := BuildPortEntries(in, targetHost)

	s := EngineSpec{
		"transport":    transport,
		"type":         transport,
		"ports":        entries,
		"control_port": controlPort,
		"bind_addr":    FormatAddressPort(in.ResolvedListenIP(), controlPort),
		"target_host":  targetHost,
	}

	if targetPort := firstPositive(atoiOrZero(in.TargetPort), atoiOrZero(in.PublicPort)); targetPort > 0 {
		s["target_addr"] = FormatAddressPort(targetHost, targetPort)
	}

	remoteAddr := in.RemoteAddr
	if remoteAddr == "" {
		remoteAddr = FormatAddressPort(in.PanelHost, controlPort)
	}
	s["remote_addr"] = remoteAddr

	if p := PortEntryPublicPort(entries[0]); p > 0 {
		mirrorFirstPort(s, []int{p})
	}
	if in.Token != "" {
		s["token"] = in.Token
	}
	if in.IPv6Bridge {
		s["use_ipv6"] = true
	}
	if !in.Advanced.isEmpty() {
		if opts := encodeOptionGroup(backhaulServerOptions, in.Advanced.Server); opts != nil {
			s["server_options"] = opts
		}
		if opts := encodeOptionGroup(backhaulClientOptions, in.Advanced.Client); opts != nil {
			s["client_options"] = opts
		}
	}
	return s, nil
}

func (backhaulAdapter) Decode(s EngineSpec, transport string) *Intent {
	in := &Intent{
		Engine:    EngineBackhaul,
		Transport: transport,
	}
	if t := s.GetString("transport"); t != "" {
		in.Transport = t
	} else if t := s.GetString("type"); t != "" {
		in.Transport = t
	}

	controlPort, ok := s.GetInt("control_port")
	if !ok || controlPort <= 0 {
		_, controlPort = ParseAddressPort(s.GetString("bind_addr"))
	}
	if controlPort <= 0 {
		_, controlPort = ParseAddressPort(s.GetString("remote_addr"))
	}
	if controlPort > 0 {
		in.ControlPort = strconv.Itoa(controlPort)
	}

	if host, _ := ParseAddressPort(s.GetString("bind_addr")); host != "" {
		in.ListenIP = host
	}

	in.TargetHost = s.GetString("target_host")
	if host, port := ParseAddressPort(s.GetString("target_addr")); host != "" {
		if in.TargetHost == "" {
			in.TargetHost = host
		}
		if port > 0 {
			in.TargetPort = strconv.Itoa(port)
		}
	}

	in.RemoteAddr = s.GetString("remote_addr")

	// The stored entries go back verbatim into the custom field; a
	// representative public port is recovered from the first entry.
	entries := s.GetStrings("ports")
	if len(entries) > 0 {
		in.CustomEntries = strings.Join(entries, "\n")
		if p := PortEntryPublicPort(entries[0]); p > 0 {
			in.PublicPort = strconv.Itoa(p)
		}
	}

	in.Token = s.GetString("token")
	in.IPv6Bridge = s.GetBool("use_ipv6")
	in.Advanced = AdvancedOptions{
		Server: decodeOptionGroup(backhaulServerOptions, s.GetMap("server_options")),
		Client: decodeOptionGroup(backhaulClientOptions, s.GetMap("client_options")),
	}
	return in
}

// BuildPortEntries produces the backhaul port mapping list. A non-blank
// custom block wins outright; otherwise one entry is synthesized per simple
// port with the same port on both sides; as a last resort a single entry is
// derived from the resolved ports so the result is never empty.
func BuildPortEntries(in *Intent, targetHost string) []string {
	if entries := splitPortEntries(in.CustomEntries); len(entries) > 0 {
		return entries
	}

	listenIP := in.ResolvedListenIP()
	prefix := ""
	if listenIP != "0.0.0.0" {
		prefix = listenIP + ":"
	}

	if ports, err := ParsePortList(in.Ports); err == nil {
		entries := make([]string, 0, len(ports))
		for _, p := range ports {
			entries = append(entries, fmt.Sprintf("%s%d=%s:%d", prefix, p, targetHost, p))
		}
		return entries
	}

	publicPort := firstPositive(
		atoiOrZero(in.PublicPort),
		atoiOrZero(in.ControlPort),
		backhaulDefaultControlPort,
	)
	targetPort := firstPositive(atoiOrZero(in.TargetPort), publicPort)
	return []string{fmt.Sprintf("%s%d=%s:%d", prefix, publicPort, targetHost, targetPort)}
}

// PortEntryPublicPort parses the trailing port of an entry's left-hand side.
// Returns 0 when none can be recovered.
func PortEntryPublicPort(entry string) int {
	lhs := entry
	if idx := strings.Index(entry, "="); idx >= 0 {
		lhs = entry[:idx]
	}
	lhs = strings.TrimSpace(lhs)
	if idx := strings.LastIndex(lhs, ":"); idx >= 0 {
		lhs = lhs[idx+1:]
	}
	if p, err := strconv.Atoi(lhs); err == nil && p > 0 {
		return p
	}
	return 0
}

func splitPortEntries(block string) []string {
	if strings.TrimSpace(block) == "" {
		return nil
	}
	var entries []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			entries = append(entries, line)
		}
	}
	return entries
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
