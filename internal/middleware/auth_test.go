package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebook/internal/pkg/jwt"
)

const testSecret = "test-secret-123"

func authRouter(svc *jwt.Service) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuth(svc))
	r.GET("/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64("user_id"), "role": c.GetString("role")})
	})
	return r
}

func serveAuth(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_AcceptsBearerSchemeInAnyCase(t *testing.T) {
	svc := jwt.New(testSecret, time.Hour)
	token, err := svc.GenerateToken(42, jwt.RoleStaff)
	require.NoError(t, err)
	r := authRouter(svc)

	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		w := serveAuth(r, scheme+" "+token)
		require.Equal(t, http.StatusOK, w.Code, scheme)

		var body struct {
			UserID int64  `json:"user_id"`
			Role   string `json:"role"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(42), body.UserID)
		assert.Equal(t, jwt.RoleStaff, body.Role)
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	svc := jwt.New(testSecret, time.Hour)
	foreign, err := jwt.New("other-secret", time.Hour).GenerateToken(1, jwt.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "AUTH_HEADER_MISSING"},
		{"basic scheme", "Basic dGVzdA==", "INVALID_AUTH_FORMAT"},
		{"scheme only", "Bearer", "INVALID_AUTH_FORMAT"},
		{"whitespace token", "Bearer    ", "INVALID_AUTH_FORMAT"},
		{"garbage token", "Bearer not-a-jwt", "INVALID_TOKEN"},
		{"signed with another secret", "Bearer " + foreign, "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(JWTAuth(svc))
			r.GET("/orders", func(c *gin.Context) {
				t.Fatal("handler reached without a valid token")
			})

			w := serveAuth(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}
