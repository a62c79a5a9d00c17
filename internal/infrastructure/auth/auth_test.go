package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/voicebot-api/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(v *Validator) *gin.Engine {
	r := gin.New()
	r.Use(v.Middleware())
	r.GET("/whoami", func(c *gin.Context) {
		owner, _ := OwnerID(c)
		c.String(http.StatusOK, owner)
	})
	return r
}

func TestMiddleware_Disabled(t *testing.T) {
	v, err := NewValidator(t.Context(), &config.Config{}, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, v.Ready())
	r := newRouter(v)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, LocalOwner, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(OwnerHeader, "user-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "user-42", w.Body.String())
}

func TestMiddleware_Enabled(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	cfg := &config.Config{AuthEnabled: true, AuthIssuer: "https://issuer.test", AuthAudience: "voicebot"}
	v := NewValidatorWithKeyfunc(cfg, zerolog.Nop(), func(*jwt.Token) (any, error) {
		return &key.PublicKey, nil
	})
	r := newRouter(v)

	sign := func(k *rsa.PrivateKey, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(k)
		require.NoError(t, err)
		return s
	}
	valid := jwt.MapClaims{
		"iss": "https://issuer.test",
		"aud": "voicebot",
		"sub": "owner-7",
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing token", header: "", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + sign(key, valid), wantStatus: http.StatusOK, wantBody: "owner-7"},
		{name: "wrong key", header: "Bearer " + sign(other, valid), wantStatus: http.StatusUnauthorized},
		{name: "wrong issuer", header: "Bearer " + sign(key, jwt.MapClaims{"iss": "https://evil.test", "aud": "voicebot", "sub": "x", "exp": time.Now().Add(time.Hour).Unix()}), wantStatus: http.StatusUnauthorized},
		{name: "wrong audience", header: "Bearer " + sign(key, jwt.MapClaims{"iss": "https://issuer.test", "aud": "other", "sub": "x", "exp": time.Now().Add(time.Hour).Unix()}), wantStatus: http.StatusUnauthorized},
		{name: "no subject", header: "Bearer " + sign(key, jwt.MapClaims{"iss": "https://issuer.test", "aud": "voicebot", "exp": time.Now().Add(time.Hour).Unix()}), wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + sign(key, jwt.MapClaims{"iss": "https://issuer.test", "aud": "voicebot", "sub": "x", "exp": time.Now().Add(-time.Hour).Unix()}), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
