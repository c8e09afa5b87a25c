package delivery

import (
	"net/http"

	authdto "triage-backend/internal/auth/dto"
	"triage-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AccountHandler struct {
	credentialUsecase usecase.CredentialUsecase
}

func NewAccountHandler(credentialUsecase usecase.CredentialUsecase) *AccountHandler {
	return &AccountHandler{credentialUsecase: credentialUsecase}
}

// LinkGoogle stores the mail credential produced by the sign-in handshake
// POST /api/accounts/google
func (h *AccountHandler) LinkGoogle(c *gin.Context) {
	userID := c.GetString("userID")

	var req authdto.LinkAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.credentialUsecase.Link(c.Request.Context(), userID, &req)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("link account failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to link account"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
