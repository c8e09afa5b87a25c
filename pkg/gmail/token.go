package gmail

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenRefresher exchanges a refresh token at the provider's token endpoint.
type TokenRefresher struct {
	config     *oauth2.Config
	httpClient *http.Client
}

func NewTokenRefresher(clientID, clientSecret, tokenURL string, httpClient *http.Client) *TokenRefresher {
	return &TokenRefresher{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

// Refresh performs a single grant_type=refresh_token exchange. The returned
// token keeps refreshToken unless the provider rotated it.
func (r *TokenRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if r.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	}
	// An empty access token forces the exchange.
	return r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
}
