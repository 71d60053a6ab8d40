package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func signalsContext(req *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestGateSignals(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payouts", nil)
	req.RemoteAddr = "41.90.1.1:5555"
	req.Header.Set(HeaderCFCountry, "ke")
	req.Header.Set("User-Agent", "test-agent/1.0")
	req.AddCookie(&http.Cookie{Name: "session", Value: "1"})

	signals := GateSignals(signalsContext(req))

	assert.Equal(t, "KE", signals.OriginCountry)
	assert.Equal(t, "41.90.1.1", signals.ClientIP)
	assert.Equal(t, "test-agent/1.0", signals.UserAgent)
	assert.True(t, signals.CookiesPresent)
	assert.True(t, signals.Amount.IsZero())
	assert.True(t, signals.At.IsZero())
}

func TestGateSignals_CountryFallbackHeader(t *testing.T) {
	tests := []struct {
		name     string
		cf       string
		fallback string
		want     string
	}{
		{"cloudflare wins", "ke", "ug", "KE"},
		{"unknown cloudflare country", "XX", "ug", "UG"},
		{"missing cloudflare header", "", "tz", "TZ"},
		{"neither header", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/deposits", nil)
			if tt.cf != "" {
				req.Header.Set(HeaderCFCountry, tt.cf)
			}
			if tt.fallback != "" {
				req.Header.Set(HeaderCountry, tt.fallback)
			}

			signals := GateSignals(signalsContext(req))
			assert.Equal(t, tt.want, signals.OriginCountry)
			assert.False(t, signals.CookiesPresent)
		})
	}
}
