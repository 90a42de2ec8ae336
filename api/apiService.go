package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/smitenet/smite-panel/logger"
	"github.com/smitenet/smite-panel/service"
	"github.com/smitenet/smite-panel/spec"
	"github.com/smitenet/smite-panel/util/common"

	"github.com/gin-gonic/gin"
)

type ApiService struct {
	service.SettingService
	service.UserService
	service.TunnelService
	service.ServerService
	service.PanelService
	chiselService *service.ChiselService
}

func NewApiService(services *service.ServicesBundle) ApiService {
	return ApiService{
		SettingService: services.SettingService,
		UserService:    services.UserService,
		TunnelService:  services.TunnelService,
		ServerService:  services.ServerService,
		PanelService:   services.PanelService,
		chiselService:  services.ChiselService,
	}
}

func (a *ApiService) Login(c *gin.Context) {
	username := c.PostForm("user")
	password := c.PostForm("pass")
	if username == "" || password == "" {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid credentials")
		return
	}
	user := a.UserService.Login(username, password)
	if user == nil {
		logger.Warningf("wrong credentials for user %s from %s", username, c.ClientIP())
		pureJsonMsg(c, http.StatusUnauthorized, false, "wrong credentials")
		return
	}
	if err := SetLoginUser(c, user); err != nil {
		jsonMsg(c, "login", err)
		return
	}
	logger.Infof("user %s logged in from %s", username, c.ClientIP())
	jsonMsg(c, "login", nil)
}

func (a *ApiService) Logout(c *gin.Context) {
	if user := GetLoginUser(c); user != "" {
		logger.Infof("user %s logged out", user)
	}
	if err := ClearSession(c); err != nil {
		jsonMsg(c, "logout", err)
		return
	}
	jsonMsg(c, "logout", nil)
}

func (a *ApiService) ChangePass(c *gin.Context) {
	username := c.PostForm("user")
	password := c.PostForm("pass")
	err := a.UserService.UpdateFirstUser(username, password)
	jsonMsg(c, "changePass", err)
}

func (a *ApiService) SaveTunnel(c *gin.Context) {
	in, err := bindIntent(c)
	if err != nil {
		jsonMsg(c, "tunnel_save", err)
		return
	}
	tunnel, err := a.TunnelService.CreateTunnel(in)
	jsonMsgObj(c, "tunnel_save", tunnel, err)
}

func (a *ApiService) UpdateTunnel(c *gin.Context) {
	id := c.PostForm("id")
	if id == "" {
		jsonMsg(c, "tunnel_update", common.NewError("missing tunnel id"))
		return
	}
	in, err := bindIntent(c)
	if err != nil {
		jsonMsg(c, "tunnel_update", err)
		return
	}
	tunnel, err := a.TunnelService.UpdateTunnel(id, in)
	jsonMsgObj(c, "tunnel_update", tunnel, err)
}

func (a *ApiService) DeleteTunnel(c *gin.Context) {
	id := c.PostForm("id")
	tunnel, err := a.TunnelService.GetTunnel(id)
	if err != nil {
		jsonMsg(c, "tunnel_delete", err)
		return
	}
	if a.chiselService != nil && tunnel.Engine == string(spec.EngineChisel) {
		if err := a.chiselService.Stop(tunnel); err != nil {
			logger.Warning("stop chisel before delete failed:", err)
		}
	}
	jsonMsg(c, "tunnel_delete", a.TunnelService.DeleteTunnel(id))
}

// StartTunnel launches the panel-side endpoint where one exists. Only the
// chisel engine has an embedded runner; the other engines are applied by
// their own daemons reading the compiled spec.
func (a *ApiService) StartTunnel(c *gin.Context) {
	id := c.PostForm("id")
	tunnel, err := a.TunnelService.GetTunnel(id)
	if err != nil {
		jsonMsg(c, "tunnel_start", err)
		return
	}
	if tunnel.Engine == string(spec.EngineChisel) && a.chiselService != nil {
		jsonMsg(c, "tunnel_start", a.chiselService.Start(tunnel))
		return
	}
	jsonMsg(c, "tunnel_start", a.TunnelService.MarkStatus(id, "active", ""))
}

func (a *ApiService) StopTunnel(c *gin.Context) {
	id := c.PostForm("id")
	tunnel, err := a.TunnelService.GetTunnel(id)
	if err != nil {
		jsonMsg(c, "tunnel_stop", err)
		return
	}
	if tunnel.Engine == string(spec.EngineChisel) && a.chiselService != nil {
		jsonMsg(c, "tunnel_stop", a.chiselService.Stop(tunnel))
		return
	}
	jsonMsg(c, "tunnel_stop", a.TunnelService.MarkStatus(id, "pending", ""))
}

func (a *ApiService) GetTunnels(c *gin.Context) {
	tunnels, err := a.TunnelService.GetTunnels()
	jsonObj(c, tunnels, err)
}

// GetTunnel returns the stored record together with the decoded intent so
// the edit form can be populated without interpreting the spec itself.
func (a *ApiService) GetTunnel(c *gin.Context) {
	id := c.Query("id")
	tunnel, err := a.TunnelService.GetTunnel(id)
	if err != nil {
		jsonMsg(c, "tunnel", err)
		return
	}
	in, err := a.TunnelService.EditIntent(tunnel)
	if err != nil {
		jsonMsg(c, "tunnel", err)
		return
	}
	jsonObj(c, gin.H{
		"tunnel": tunnel,
		"intent": in,
	}, nil)
}

func (a *ApiService) GetEngines(c *gin.Context) {
	engines := make([]gin.H, 0, len(spec.Engines()))
	for _, e := range spec.Engines() {
		engines = append(engines, gin.H{
			"name":       string(e),
			"display":    e.DisplayName(),
			"transports": e.Transports(),
		})
	}
	jsonObj(c, engines, nil)
}

func (a *ApiService) GetSettings(c *gin.Context) {
	settings, err := a.SettingService.GetAllSetting()
	if err != nil {
		jsonMsg(c, "settings", err)
		return
	}
	delete(settings, "secret")
	jsonObj(c, settings, nil)
}

func (a *ApiService) UpdateSettings(c *gin.Context) {
	data := c.PostForm("data")
	var changes map[string]string
	if err := json.Unmarshal([]byte(data), &changes); err != nil {
		jsonMsg(c, "settings_update", err)
		return
	}
	delete(changes, "secret")
	jsonMsg(c, "settings_update", a.SettingService.Update(changes))
}

func (a *ApiService) GetStatus(c *gin.Context) {
	jsonObj(c, a.ServerService.GetStatus(), nil)
}

func (a *ApiService) GetLogs(c *gin.Context) {
	count := c.DefaultQuery("c", "50")
	level := c.DefaultQuery("l", "info")
	n, err := strconv.Atoi(count)
	if err != nil {
		n = 50
	}
	jsonObj(c, logger.GetLogs(n, level), nil)
}

func (a *ApiService) RestartApp(c *gin.Context) {
	err := a.PanelService.RestartPanel(time.Second * 3)
	jsonMsg(c, "restartApp", err)
}

func (a *ApiService) ExportTunnels(c *gin.Context) {
	data, err := a.TunnelService.ExportYAML()
	if err != nil {
		jsonMsg(c, "tunnels_export", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="tunnels.yaml"`)
	c.Data(http.StatusOK, "application/yaml", data)
}

func (a *ApiService) ImportTunnels(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		jsonMsg(c, "tunnels_import", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		jsonMsg(c, "tunnels_import", err)
		return
	}
	count, err := a.TunnelService.ImportYAML(data)
	jsonMsgObj(c, "tunnels_import", count, err)
}

func bindIntent(c *gin.Context) (*spec.Intent, error) {
	data := c.PostForm("data")
	if data == "" {
		return nil, common.NewError("missing tunnel data")
	}
	in := &spec.Intent{}
	if err := json.Unmarshal([]byte(data), in); err != nil {
		return nil, err
	}
	return in, nil
}
