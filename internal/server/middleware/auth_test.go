package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	logger := zerolog.Nop()
	protected := Auth(AuthConfig{APIKey: "s3cret"}, &logger)(okHandler())

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"custom header", "X-API-Key", "s3cret", http.StatusOK},
		{"bearer token", "Authorization", "Bearer s3cret", http.StatusOK},
		{"raw authorization", "Authorization", "s3cret", http.StatusOK},
		{"wrong key", "X-API-Key", "nope", http.StatusUnauthorized},
		{"missing key", "", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/vehicles/refresh", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"success":false`)
			}
		})
	}
}

func TestAuthDisabled(t *testing.T) {
	logger := zerolog.Nop()
	config := AuthConfig{}
	assert.False(t, config.Enabled())

	rec := httptest.NewRecorder()
	Auth(config, &logger)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
