package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-chatbot/internal/infra/config"
	"github.com/yanqian/faq-chatbot/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, collector *metrics.Collector) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	logger := handler.logger
	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
	)

	router.GET("/healthz", handler.Health)
	if collector != nil {
		router.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	api := router.Group("/")
	api.Use(
		apiKeyMiddleware(cfg.HTTP.APIKey),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)
	{
		api.GET("/qa_pairs", handler.ListPairs)
		api.POST("/qa_pairs", handler.AddPair)
		api.POST("/process_message", handler.ProcessMessage)
		api.POST("/select_suggested_question", handler.SelectSuggestedQuestion)
		api.POST("/add_question_association", handler.AddAssociation)
		api.GET("/question_associations", handler.ListAssociations)
		api.GET("/trending", handler.Trending)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
