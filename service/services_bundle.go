package service

// ServicesBundle groups initialized service instances to pass between
// application components (app -> web -> api) without creating import cycles.
type ServicesBundle struct {
	SettingService SettingService
	UserService    UserService
	TunnelService  TunnelService
	ServerService  ServerService
	PanelService   PanelService
	ChiselService  *ChiselService
}
