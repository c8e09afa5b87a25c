package dto

// LinkAccountRequest carries the tokens obtained by the external sign-in handshake.
type LinkAccountRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token" binding:"required"`
	ExpiresIn    int64  `json:"expires_in"` // seconds; 0 means unknown
}

type LinkAccountResponse struct {
	Provider  string `json:"provider"`
	Linked    bool   `json:"linked"`
	ExpiresAt *int64 `json:"expires_at,omitempty"`
}
