package api

import (
	"strings"

	"github.com/smitenet/smite-panel/service"
	"github.com/smitenet/smite-panel/util/common"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	ApiService
}

func NewAPIHandler(g *gin.RouterGroup, services *service.ServicesBundle) {
	a := &APIHandler{
		ApiService: NewApiService(services),
	}
	a.initRouter(g)
}

func (a *APIHandler) initRouter(g *gin.RouterGroup) {
	g.Use(func(c *gin.Context) {
		path := c.Request.URL.Path
		if !strings.HasSuffix(path, "login") && !strings.HasSuffix(path, "logout") {
			checkLogin(c)
		}
	})
	g.POST("/:postAction", a.postHandler)
	g.GET("/:getAction", a.getHandler)
}

func (a *APIHandler) postHandler(c *gin.Context) {
	action := c.Param("postAction")

	switch action {
	case "login":
		a.ApiService.Login(c)
	case "changePass":
		a.ApiService.ChangePass(c)
	case "tunnel_save":
		a.ApiService.SaveTunnel(c)
	case "tunnel_update":
		a.ApiService.UpdateTunnel(c)
	case "tunnel_delete":
		a.ApiService.DeleteTunnel(c)
	case "tunnel_start":
		a.ApiService.StartTunnel(c)
	case "tunnel_stop":
		a.ApiService.StopTunnel(c)
	case "tunnels_import":
		a.ApiService.ImportTunnels(c)
	case "settings_update":
		a.ApiService.UpdateSettings(c)
	case "restartApp":
		a.ApiService.RestartApp(c)
	default:
		jsonMsg(c, "failed", common.NewError("unknown action: ", action))
	}
}

func (a *APIHandler) getHandler(c *gin.Context) {
	action := c.Param("getAction")

	switch action {
	case "logout":
		a.ApiService.Logout(c)
	case "tunnels":
		a.ApiService.GetTunnels(c)
	case "tunnel":
		a.ApiService.GetTunnel(c)
	case "engines":
		a.ApiService.GetEngines(c)
	case "settings":
		a.ApiService.GetSettings(c)
	case "status":
		a.ApiService.GetStatus(c)
	case "logs":
		a.ApiService.GetLogs(c)
	case "tunnels_export":
		a.ApiService.ExportTunnels(c)
	default:
		jsonMsg(c, "failed", common.NewError("unknown action: ", action))
	}
}
