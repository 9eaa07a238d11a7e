package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradebook/config"
	"gradebook/internal/model"
	"gradebook/internal/util"
)

func testAuthConfig() *config.Config {
	return &config.Config{JWT: config.JWT{Secret: "test-secret", TTL: time.Hour}}
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testAuthConfig()

	token, err := util.GenerateJWT(&model.User{ID: 7, Email: "teach@example.com", Role: model.RoleTeacher}, cfg.JWT.Secret, cfg.JWT.TTL)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/ping", RequireAuth(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid bearer token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"token without scheme", token, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testAuthConfig()

	r := gin.New()
	r.GET("/teachers-only", RequireAuth(cfg), RequireRole(model.RoleTeacher), func(c *gin.Context) { c.Status(http.StatusOK) })

	teacherToken, err := util.GenerateJWT(&model.User{ID: 1, Email: "teach@example.com", Role: model.RoleTeacher}, cfg.JWT.Secret, cfg.JWT.TTL)
	require.NoError(t, err)
	studentToken, err := util.GenerateJWT(&model.User{ID: 2, Email: "stu@example.com", Role: model.RoleStudent}, cfg.JWT.Secret, cfg.JWT.TTL)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/teachers-only", nil)
	req.Header.Set("Authorization", "Bearer "+teacherToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/teachers-only", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
