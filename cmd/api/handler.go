package api

import (
	"time"

	authDelivery "triage-backend/internal/auth/delivery"
	authUsecase "triage-backend/internal/auth/usecase"
	emailDelivery "triage-backend/internal/email/delivery"
	emailUsecase "triage-backend/internal/email/usecase"
	itemDelivery "triage-backend/internal/item/delivery"
	itemUsecase "triage-backend/internal/item/usecase"
	"triage-backend/pkg/config"
	"triage-backend/pkg/lock"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	sessions       authUsecase.SessionValidator
	accountHandler *authDelivery.AccountHandler
	syncHandler    *emailDelivery.SyncHandler
	itemHandler    *itemDelivery.ItemHandler
	config         *config.Config
}

func NewHandler(
	credentialUc authUsecase.CredentialUsecase,
	syncUc emailUsecase.SyncUsecase,
	itemUc itemUsecase.ItemUsecase,
	locker lock.Locker,
	cfg *config.Config,
) *Handler {
	lockTTL := cfg.SyncLockTTL
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}

	return &Handler{
		sessions:       authUsecase.NewSessionValidator(cfg.JWTSecret),
		accountHandler: authDelivery.NewAccountHandler(credentialUc),
		syncHandler:    emailDelivery.NewSyncHandler(syncUc, locker, lockTTL),
		itemHandler:    itemDelivery.NewItemHandler(itemUc),
		config:         cfg,
	}
}

// Router builds the gin engine with CORS and all routes.
func (h *Handler) Router() *gin.Engine {
	if h.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.sessions, h.accountHandler, h.syncHandler, h.itemHandler)
	return r
}

func (h *Handler) Start(addr string) error {
	return h.Router().Run(addr)
}
