package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sitepages/internal/db"
	"github.com/sitepages/internal/view"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "s3cret-pass"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(db.Options{Path: dsn, LogLevel: logger.Silent})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if _, err := db.EnsureUser(gdb, testAdminUser, testAdminPassword); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

// newTestEngine mounts the handlers the same way the production router does,
// without request logging and metrics middleware.
func newTestEngine(t *testing.T, opts Options) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := setupTestDB(t)
	api := NewAPI(gdb, opts)

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.SetHTMLTemplate(view.Templates())

	r.GET("/", api.ShowHome)
	r.GET("/page/:slug", api.ShowPage)
	r.GET("/healthz", api.HealthCheck)
	r.GET("/admin", RedirectToLogin("/admin/login"), api.ShowAdmin)
	r.GET("/admin/login", api.ShowLoginPage)

	auth := r.Group("/api/auth")
	auth.POST("/login", api.Login)
	auth.POST("/logout", api.Logout)
	auth.GET("/status", api.AuthStatus)

	pages := r.Group("/api/pages")
	pages.GET("", api.ListPages)
	pages.GET("/slug/:slug", api.GetPageBySlug)
	pages.GET("/:id", api.GetPage)

	writes := pages.Group("", AuthRequired())
	writes.POST("", api.CreatePage)
	writes.PUT("/:id", api.UpdatePage)
	writes.PUT("/:id/content", api.UpdatePageContent)
	writes.DELETE("/:id", api.DeletePage)

	return r, gdb
}

func doRequest(r http.Handler, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, _ := json.Marshal(v)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()

	w := doRequest(r, http.MethodPost, "/api/auth/login", map[string]string{
		"username": testAdminUser,
		"password": testAdminPassword,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "test_session" {
			return ck
		}
	}
	t.Fatalf("login did not set a session cookie")
	return nil
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeJSON(t, w, &body)
	return body["error"]
}
