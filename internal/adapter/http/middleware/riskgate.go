package middleware

import (
	"strings"

	"mobile-money-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const (
	HeaderCFCountry = "CF-IPCountry"
	HeaderCountry   = "X-Country-Code"
)

// GateSignals collects the request attributes the risk gates evaluate.
// Subject, amount, direction and time are filled in by the intent service
// once the request body has been validated.
func GateSignals(c *gin.Context) *ports.GateRequest {
	return &ports.GateRequest{
		OriginCountry:  originCountry(c),
		ClientIP:       c.ClientIP(),
		UserAgent:      c.Request.UserAgent(),
		CookiesPresent: len(c.Request.Cookies()) > 0,
	}
}

func originCountry(c *gin.Context) string {
	country := strings.TrimSpace(c.GetHeader(HeaderCFCountry))
	if country == "" || strings.EqualFold(country, "XX") {
		country = strings.TrimSpace(c.GetHeader(HeaderCountry))
	}
	return strings.ToUpper(country)
}
