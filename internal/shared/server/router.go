package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "coverletter-backend/internal/auth"
	"coverletter-backend/internal/letters"
	"coverletter-backend/internal/resumes"
	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/signature"
	"coverletter-backend/internal/uploads"
	"coverletter-backend/internal/usage"
)

// RouterDeps carries the handlers wired by bootstrap.
type RouterDeps struct {
	Config           config.Config
	ResumeHandler    *resumes.Handler
	LetterHandler    *letters.Handler
	SignatureHandler *signature.Handler
	UsageHandler     *usage.Handler
	AccountHandler   AccountRoutes
	GoogleAuth       *googleauth.GoogleService
}

// AccountRoutes is implemented by the account handler.
type AccountRoutes interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(defaultRateLimits()),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())
	registerMeRoutes(api)

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if deps.LetterHandler != nil {
		deps.LetterHandler.RegisterRoutes(api)
	}
	if deps.SignatureHandler != nil {
		deps.SignatureHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if deps.Config.Env == "dev" {
			dev := api.Group("/dev")
			deps.UsageHandler.RegisterDevRoutes(dev)
		}
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	uploads.RegisterRoutes(api)

	return r
}

func defaultRateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"GENERATE": {Rate: 0.2, Burst: 3},
			"FETCH":    {Rate: 5, Burst: 20},
		},
		DefaultGroup: "FETCH",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/letters" {
				return "GENERATE"
			}
			return "FETCH"
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
