package api

import (
	"net/http"

	authDelivery "triage-backend/internal/auth/delivery"
	authUsecase "triage-backend/internal/auth/usecase"
	emailDelivery "triage-backend/internal/email/delivery"
	itemDelivery "triage-backend/internal/item/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, sessions authUsecase.SessionValidator, accountHandler *authDelivery.AccountHandler, syncHandler *emailDelivery.SyncHandler, itemHandler *itemDelivery.ItemHandler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		protected := api.Group("")
		protected.Use(authDelivery.AuthMiddleware(sessions))

		// Account linking
		accounts := protected.Group("/accounts")
		{
			accounts.POST("/google", accountHandler.LinkGoogle)
		}

		// Ingestion
		sync := protected.Group("/sync")
		{
			sync.POST("", syncHandler.Sync)
			sync.GET("/status", syncHandler.Status)
		}

		// Triage items
		items := protected.Group("/items")
		{
			items.GET("", itemHandler.GetItems)
			items.POST("", itemHandler.CreateTask)
			items.POST("/:id/clear", itemHandler.ClearItem)
			items.POST("/:id/restore", itemHandler.RestoreItem)
			items.POST("/:id/read", itemHandler.MarkAsRead)
			items.PATCH("/:id/lane", itemHandler.MoveItem)
			items.PATCH("/:id/title", itemHandler.RenameItem)
			items.DELETE("/:id", itemHandler.DeleteItem)
		}
	}
}
