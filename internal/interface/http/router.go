package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/hermate-ai/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.CORS.AllowedOrigins),
		limitBodySize(cfg.HTTP.MaxBodyBytes),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/", handler.Home)
	router.POST("/ai/symptom-advice", handler.SymptomAdvice)

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
