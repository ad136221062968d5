package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sitepages/internal/metrics"
	"github.com/sitepages/internal/service"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 校验管理员账号并签发会话 Cookie。
func (a *API) Login(c *gin.Context) {
	var payload loginRequest
	if !bindJSON(c, &payload, "Username and password are required") {
		return
	}

	user, err := a.auth.Authenticate(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("rejected").Inc()
			respondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		respondInternalError(c, err, "Login failed")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		respondInternalError(c, err, "Login failed")
		return
	}

	metrics.LoginAttempts.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "username": user.Username})
}

// Logout 清除会话 Cookie。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		respondInternalError(c, err, "Logout failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AuthStatus 告知客户端当前 Cookie 是否有效。
func (a *API) AuthStatus(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(sessionUserIDKey) == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"username":      session.Get(sessionUsernameKey),
	})
}

// ShowAdmin 返回后台前端入口。
func (a *API) ShowAdmin(c *gin.Context) {
	a.serveAdminFile(c, "index.html")
}

// ShowLoginPage 返回后台登录页。
func (a *API) ShowLoginPage(c *gin.Context) {
	a.serveAdminFile(c, "login.html")
}

func (a *API) serveAdminFile(c *gin.Context, name string) {
	if a.staticDir == "" {
		respondError(c, http.StatusNotFound, "Admin UI is not installed")
		return
	}
	path := filepath.Join(a.staticDir, "admin", name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		respondError(c, http.StatusNotFound, "Admin UI is not installed")
		return
	}
	c.File(path)
}

// AuthRequired 拒绝没有有效会话的写请求，处理函数与存储都不会被触达。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionUserIDKey) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// RedirectToLogin 是后台页面使用的认证中间件，未登录时跳转而不是返回 JSON。
func RedirectToLogin(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionUserIDKey) == nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
