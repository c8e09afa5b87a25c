package domain

import "time"

const ProviderGoogle = "google"

// Credential is a user's OAuth grant for one mail provider.
// Tokens are stored encrypted when an encryption key is configured.
type Credential struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"user_id" gorm:"not null;uniqueIndex:idx_credentials_user_provider,priority:1"`
	Provider     string     `json:"provider" gorm:"not null;uniqueIndex:idx_credentials_user_provider,priority:2"`
	AccessToken  string     `json:"-" gorm:"type:text"`
	RefreshToken string     `json:"-" gorm:"type:text"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Linked reports whether the credential can mint new access tokens.
func (c *Credential) Linked() bool {
	return c != nil && c.RefreshToken != ""
}

// AccessTokenValid reports whether the stored access token can be used at now.
// A credential without a known expiry is trusted until the provider rejects it.
func (c *Credential) AccessTokenValid(now time.Time) bool {
	if c.AccessToken == "" {
		return false
	}
	return c.ExpiresAt == nil || now.Before(*c.ExpiresAt)
}

// TokenUpdate is the result of a refresh. An empty RefreshToken keeps the stored one.
type TokenUpdate struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}
