package usecase

import (
	"context"
	"fmt"
	"time"

	authdomain "triage-backend/internal/auth/domain"
	authdto "triage-backend/internal/auth/dto"
	"triage-backend/internal/auth/repository"

	"github.com/sirupsen/logrus"
)

// credentialUsecase implements CredentialUsecase interface
type credentialUsecase struct {
	credRepo  repository.CredentialRepository
	refresher TokenRefresher
	provider  string
	now       func() time.Time
	log       *logrus.Entry
}

// NewCredentialUsecase creates a new instance of credentialUsecase
func NewCredentialUsecase(credRepo repository.CredentialRepository, refresher TokenRefresher) CredentialUsecase {
	return &credentialUsecase{
		credRepo:  credRepo,
		refresher: refresher,
		provider:  authdomain.ProviderGoogle,
		now:       func() time.Time { return time.Now().UTC() },
		log:       logrus.WithField("component", "credentials"),
	}
}

func (u *credentialUsecase) EnsureValidAccessToken(ctx context.Context, userID string) (string, error) {
	cred, err := u.credRepo.Get(ctx, userID, u.provider)
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	if !cred.Linked() {
		return "", authdomain.ErrNotLinked
	}

	if cred.AccessTokenValid(u.now()) {
		return cred.AccessToken, nil
	}

	token, err := u.refresher.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		u.log.WithError(err).WithField("user_id", userID).Warn("token refresh failed")
		return "", &authdomain.AuthError{Kind: authdomain.AuthRefreshFailed, Err: err}
	}

	update := authdomain.TokenUpdate{AccessToken: token.AccessToken}
	if !token.Expiry.IsZero() {
		expiresAt := token.Expiry.UTC()
		update.ExpiresAt = &expiresAt
	}
	if token.RefreshToken != "" && token.RefreshToken != cred.RefreshToken {
		update.RefreshToken = token.RefreshToken
	}

	// Never hand out a token that was not saved.
	if err := u.credRepo.UpdateToken(ctx, userID, u.provider, update); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}

	u.log.WithFields(logrus.Fields{
		"user_id": userID,
		"rotated": update.RefreshToken != "",
	}).Info("access token refreshed")
	return token.AccessToken, nil
}

func (u *credentialUsecase) Link(ctx context.Context, userID string, req *authdto.LinkAccountRequest) (*authdto.LinkAccountResponse, error) {
	cred := &authdomain.Credential{
		UserID:       userID,
		Provider:     u.provider,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	}
	if req.ExpiresIn > 0 && req.AccessToken != "" {
		expiresAt := u.now().Add(time.Duration(req.ExpiresIn) * time.Second)
		cred.ExpiresAt = &expiresAt
	}

	if err := u.credRepo.Upsert(ctx, cred); err != nil {
		return nil, fmt.Errorf("store credential: %w", err)
	}

	resp := &authdto.LinkAccountResponse{Provider: u.provider, Linked: true}
	if cred.ExpiresAt != nil {
		unix := cred.ExpiresAt.Unix()
		resp.ExpiresAt = &unix
	}
	return resp, nil
}

func (u *credentialUsecase) LinkedUserIDs(ctx context.Context) ([]string, error) {
	return u.credRepo.ListLinkedUserIDs(ctx, u.provider)
}
