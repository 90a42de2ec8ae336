package spec

// Intent is the canonical, engine-agnostic description of a tunnel as the
// operator edits it. It lives only in transient form state: encoding turns
// it into an EngineSpec exactly once on submit, decoding a stored spec
// reconstructs it when the edit form opens.
//
// Port-like fields are kept as text because that is how the form carries
// them; the adapters parse and default them during encode.
type Intent struct {
	Name      string `json:"name"`
	Engine    Engine `json:"engine"`
	Transport string `json:"transport"`

	// Ports is the comma-separated port list. Must yield at least one valid
	// port before any encode.
	Ports string `json:"ports"`

	// TargetHost is the destination reachable from the relay side. Empty
	// means 127.0.0.1, or ::1 when IPv6Bridge is set.
	TargetHost string `json:"target_host,omitempty"`

	// ControlPort is the engine's control-channel port as entered; each
	// adapter derives its own default when blank.
	ControlPort string `json:"control_port,omitempty"`

	// PanelHost is the externally-resolved hostname of the panel, passed in
	// explicitly by the caller instead of being read from the environment.
	PanelHost string `json:"panel_host,omitempty"`

	// Token is the optional shared secret. Never serialized when empty.
	Token string `json:"token,omitempty"`

	// IPv6Bridge means the panel-facing side listens on IPv4 while the far
	// side uses IPv6. Not meaningful for gost.
	IPv6Bridge bool `json:"ipv6_bridge,omitempty"`

	// Backhaul-only fields.
	ListenIP      string          `json:"listen_ip,omitempty"`
	PublicPort    string          `json:"public_port,omitempty"`
	TargetPort    string          `json:"target_port,omitempty"`
	RemoteAddr    string          `json:"remote_addr,omitempty"`
	CustomEntries string          `json:"custom_entries,omitempty"`
	Advanced      AdvancedOptions `json:"advanced,omitempty"`
}

// ResolvedTargetHost applies the loopback default.
func (in *Intent) ResolvedTargetHost() string {
	if in.TargetHost != "" {
		return in.TargetHost
	}
	if in.IPv6Bridge {
		return "::1"
	}
	return "127.0.0.1"
}

// ResolvedListenIP applies the wildcard default for backhaul bind addresses.
func (in *Intent) ResolvedListenIP() string {
	if in.ListenIP != "" {
		return in.ListenIP
	}
	return "0.0.0.0"
}
