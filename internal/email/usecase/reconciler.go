package usecase

import (
	"context"

	"triage-backend/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Reconciler pushes local read state back to the mail provider.
// Every failure is logged and swallowed.
type Reconciler struct {
	tokens   AccessTokenProvider
	modifier LabelModifier
	log      *logrus.Entry
}

func NewReconciler(tokens AccessTokenProvider, modifier LabelModifier) *Reconciler {
	return &Reconciler{
		tokens:   tokens,
		modifier: modifier,
		log:      logrus.WithField("component", "reconciler"),
	}
}

func (r *Reconciler) PropagateRead(ctx context.Context, userID, providerMessageID string) {
	log := r.log.WithFields(logrus.Fields{"user_id": userID, "message_id": providerMessageID})

	accessToken, err := r.tokens.EnsureValidAccessToken(ctx, userID)
	if err != nil {
		logger.CaptureError(log, err, "read-state propagation skipped: no access token")
		return
	}

	if err := r.modifier.MarkAsRead(ctx, accessToken, providerMessageID); err != nil {
		logger.CaptureError(log, err, "read-state propagation failed")
		return
	}
	log.Debug("read state propagated")
}
