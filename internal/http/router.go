package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"size-fit/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	fittingH *FittingHandler,
	catalogH *CatalogHandler,
	shopperH *ShopperHandler,
	jwtSvc *service.JWTService,
	limiter service.RateLimiter,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limited := rateLimitMiddleware(limiter)

	fitting := r.Group("/fitting", limited)
	fitting.POST("/estimate", fittingH.Estimate)
	fitting.POST("/recommend", fittingH.Recommend)

	shoppers := r.Group("/shoppers/:id", limited)
	shoppers.PUT("/body-profile", shopperH.PutBodyProfile)
	shoppers.GET("/body-profile", shopperH.GetBodyProfile)

	products := r.Group("/products/:id")
	products.GET("/size-chart", catalogH.GetSizeChart)
	products.PUT("/size-chart", JWTAuthMiddleware(jwtSvc), catalogH.ReplaceSizeChart)
	products.POST("/recommendation", limited, catalogH.RecommendForProduct)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

// rateLimitMiddleware limita por IP del cliente. Sin limiter no limita.
func rateLimitMiddleware(limiter service.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		if !limiter.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
