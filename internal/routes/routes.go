package routes

import (
	"time"

	"github.com/01moynul/souq-catalog/internal/handlers"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger writes one structured line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// SetupRouter wires every catalog endpoint under /api. allowedOrigins feeds
// the CORS guard; an empty list allows any origin.
func SetupRouter(h *handlers.Handlers, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if h.Logger != nil {
		router.Use(RequestLogger(h.Logger))
	}

	// --- CORS Guard ---
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Cache-Control", "Pragma"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		// --- Ping Route ---
		api.GET("/ping", h.Ping)

		// --- Product Routes ---
		api.GET("/products", h.GetProducts)
		api.GET("/products/:id", h.GetProduct)
		api.POST("/products", h.SaveProduct)
		api.POST("/products/reorder", h.ReorderProducts)
		api.PUT("/products/:id", h.UpdateProduct)
		api.DELETE("/products/:id", h.DeleteProduct)

		// --- Category Routes ---
		api.GET("/categories", h.GetCategories)
		api.POST("/categories", h.SaveCategory)
		api.POST("/categories/reorder", h.ReorderCategories)
		api.PUT("/categories/:id", h.UpdateCategory)
		api.DELETE("/categories/:id", h.DeleteCategory)

		// --- Order Routes ---
		api.GET("/orders", h.GetOrders)
		api.POST("/orders", h.CreateOrder)
		api.PATCH("/orders/:id", h.UpdateOrderStatus)
		api.DELETE("/orders/:id", h.DeleteOrder)

		// --- Settings Routes ---
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.PutSettings)

		// --- Admin Routes ---
		api.GET("/dashboard", h.GetDashboard)
		api.GET("/export/products.xlsx", h.ExportProducts)
		api.POST("/uploads", h.UploadImage)
	}

	// --- Uploaded Images ---
	if h.UploadDir != "" {
		router.Static("/uploads", h.UploadDir)
	}

	return router
}
