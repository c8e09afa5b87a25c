package usecase

import (
	"context"

	authdto "triage-backend/internal/auth/dto"

	"golang.org/x/oauth2"
)

// CredentialUsecase owns the per-user mail provider credential.
type CredentialUsecase interface {
	// EnsureValidAccessToken returns a usable access token, refreshing and
	// persisting it first when the stored one has expired.
	EnsureValidAccessToken(ctx context.Context, userID string) (string, error)

	// Link stores the tokens from a completed sign-in handshake
	Link(ctx context.Context, userID string, req *authdto.LinkAccountRequest) (*authdto.LinkAccountResponse, error)

	// LinkedUserIDs lists users whose mailbox can be synced
	LinkedUserIDs(ctx context.Context) ([]string, error)
}

// TokenRefresher exchanges a refresh token for a new access token.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// SessionValidator resolves a bearer session token to a user id.
type SessionValidator interface {
	ValidateToken(tokenString string) (string, error)
}
