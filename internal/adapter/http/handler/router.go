package handler

import (
	"mobile-money-gateway/internal/adapter/http/middleware"
	redisStore "mobile-money-gateway/internal/adapter/storage/redis"
	"mobile-money-gateway/internal/core/ports"
	"mobile-money-gateway/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	IntentSvc      ports.IntentService
	TokenSvc       ports.TokenService
	SigSvc         ports.SignatureService
	WebhookSecret  string                     // empty = generic callbacks unsigned
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Provider callbacks (unauthenticated, always acknowledged) ---
	callbackHandler := NewCallbackHandler(deps.IntentSvc, deps.SigSvc, deps.WebhookSecret, deps.Logger)
	callbacks := v1.Group("/callbacks", rl("callbacks"))
	{
		callbacks.POST("/mpesa", callbackHandler.Mpesa)
		callbacks.POST("/airtel", callbackHandler.Airtel)
		callbacks.POST("/generic", callbackHandler.Generic)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	intentHandler := NewIntentHandler(deps.IntentSvc)

	deposits := v1.Group("/deposits", jwtAuth)
	{
		deposits.POST("", rl("deposits"), intentHandler.InitiateDeposit)
		deposits.POST("/confirm", middleware.RequireRole(service.RoleAdmin), rl("confirm"), intentHandler.ConfirmDeposit)
		deposits.GET("/:id", rl("queries"), intentHandler.GetDeposit)
	}

	payouts := v1.Group("/payouts", jwtAuth)
	{
		payouts.POST("", rl("payouts"), intentHandler.InitiatePayout)
	}

	return r
}
