package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fieldsales/backend/internal/infrastructure/logger"
	"github.com/fieldsales/backend/internal/interfaces/http/handler"
	"github.com/fieldsales/backend/internal/interfaces/http/middleware"
)

// New builds the gin engine with all routes and middleware wired
func New(cartHandler *handler.CartHandler, log *zap.Logger) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.GinRecovery(log))
	engine.Use(middleware.CORS())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", cartHandler.StartSession)

			session := sessions.Group("/:sessionID")
			{
				session.GET("/cart", cartHandler.GetCart)
				session.PUT("/customer", cartHandler.SetCustomer)
				session.PUT("/stage", cartHandler.SetStage)
				session.PUT("/fefo", cartHandler.SetFefo)
				session.PUT("/online", cartHandler.SetOnline)
				session.POST("/reset", cartHandler.ResetOrder)

				session.GET("/products/:productID/batches", cartHandler.GetProductBatches)
				session.POST("/batch-pick", cartHandler.PickBatch)

				session.POST("/cart/items", cartHandler.AddToCart)
				session.DELETE("/cart/items/:index", cartHandler.RemoveLine)

				session.POST("/returns", cartHandler.AddReturn)
				session.DELETE("/returns/:index", cartHandler.RemoveReturnLine)

				session.GET("/summary", cartHandler.GetSummary)
				session.POST("/submit", cartHandler.Submit)
			}
		}
	}

	return engine
}
