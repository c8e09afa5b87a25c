package delivery

import (
	"errors"
	"net/http"
	"time"

	authdomain "triage-backend/internal/auth/domain"
	emaildomain "triage-backend/internal/email/domain"
	emaildto "triage-backend/internal/email/dto"
	"triage-backend/internal/email/scheduler"
	"triage-backend/internal/email/usecase"
	"triage-backend/pkg/lock"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SyncHandler struct {
	syncUsecase usecase.SyncUsecase
	locker      lock.Locker
	lockTTL     time.Duration
}

func NewSyncHandler(syncUsecase usecase.SyncUsecase, locker lock.Locker, lockTTL time.Duration) *SyncHandler {
	return &SyncHandler{
		syncUsecase: syncUsecase,
		locker:      locker,
		lockTTL:     lockTTL,
	}
}

// Sync ingests new inbox mail for the caller
// POST /api/sync
func (h *SyncHandler) Sync(c *gin.Context) {
	userID := c.GetString("userID")
	ctx := c.Request.Context()

	release, err := h.locker.Acquire(ctx, scheduler.LockKey(userID), h.lockTTL)
	if errors.Is(err, lock.ErrLocked) {
		c.JSON(http.StatusConflict, gin.H{"error": "sync already in progress"})
		return
	}
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("sync lock unavailable")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync lock unavailable"})
		return
	}
	defer release()

	synced, err := h.syncUsecase.Sync(ctx, userID)
	if err != nil {
		respondSyncError(c, userID, err)
		return
	}

	c.JSON(http.StatusOK, emaildto.SyncResponse{Synced: synced})
}

// Status reports the last sync outcome
// GET /api/sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	userID := c.GetString("userID")

	state, err := h.syncUsecase.Status(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if state == nil {
		c.JSON(http.StatusOK, emaildto.SyncStatusResponse{})
		return
	}

	c.JSON(http.StatusOK, emaildto.SyncStatusResponse{
		Synced:          true,
		LastSyncAt:      state.LastSyncAt,
		LastSyncedCount: state.LastSyncedCount,
		NextPageToken:   state.NextPageToken,
	})
}

func respondSyncError(c *gin.Context, userID string, err error) {
	var providerErr *emaildomain.ProviderError
	switch {
	case errors.Is(err, authdomain.ErrNotLinked):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google account not linked"})
	case errors.Is(err, authdomain.ErrRefreshFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google authorization expired, please sign in again"})
	case errors.As(err, &providerErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": providerErr.Error()})
	default:
		logrus.WithError(err).WithField("user_id", userID).Error("sync failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
	}
}
