package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vinifvision/alerta-conecta-mobile/internal/auth"
	"github.com/vinifvision/alerta-conecta-mobile/internal/config"
	"github.com/vinifvision/alerta-conecta-mobile/internal/geocode"
	"github.com/vinifvision/alerta-conecta-mobile/internal/http/handlers"
	"github.com/vinifvision/alerta-conecta-mobile/internal/http/middleware"
	"github.com/vinifvision/alerta-conecta-mobile/internal/upstream"

	_ "github.com/vinifvision/alerta-conecta-mobile/docs"
)

func Router(cfg config.Config, store upstream.IncidentStore, authn auth.Authenticator, geocoder geocode.Geocoder, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Auth:      authn,
		Geocoder:  geocoder,
		Validator: validator.New(),
		Logger:    logger,
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/login", h.Login)

	protected := api.Group("")
	protected.Use(middleware.BearerToken())
	{
		protected.GET("/incidents", h.IncidentsList)
		protected.GET("/incidents/:id", h.IncidentDetail)
		protected.POST("/incidents", h.IncidentCreate)
		protected.PUT("/incidents/:id", h.IncidentUpdate)
		protected.GET("/options", h.OptionsCatalog)
		protected.GET("/geocode/search", h.GeocodeSearch)
		protected.GET("/geocode/reverse", h.GeocodeReverse)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
