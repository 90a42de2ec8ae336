package api

import (
	"net/http"

	"github.com/smitenet/smite-panel/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const loginUserKey = "LOGIN_USER"

func SetLoginUser(c *gin.Context, user *model.User) error {
	s := sessions.Default(c)
	s.Set(loginUserKey, user.Username)
	return s.Save()
}

func GetLoginUser(c *gin.Context) string {
	s := sessions.Default(c)
	user := s.Get(loginUserKey)
	if user == nil {
		return ""
	}
	username, _ := user.(string)
	return username
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != ""
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	return s.Save()
}

func checkLogin(c *gin.Context) {
	if !IsLogin(c) {
		pureJsonMsg(c, http.StatusUnauthorized, false, "login required")
		c.Abort()
		return
	}
	c.Next()
}
