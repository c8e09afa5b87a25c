package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdomain "triage-backend/internal/auth/domain"
	"triage-backend/pkg/utils/crypto"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CredentialRepository persists OAuth credentials keyed by (user, provider).
type CredentialRepository interface {
	// Get returns nil, nil when the user has no credential for provider
	Get(ctx context.Context, userID, provider string) (*authdomain.Credential, error)
	// UpdateToken stores a refreshed access token, rotating the refresh token when one is given
	UpdateToken(ctx context.Context, userID, provider string, update authdomain.TokenUpdate) error
	// Upsert creates or replaces the credential for (user, provider)
	Upsert(ctx context.Context, cred *authdomain.Credential) error
	// ListLinkedUserIDs returns users holding a refresh token for provider
	ListLinkedUserIDs(ctx context.Context, provider string) ([]string, error)
}

// credentialRepository implements CredentialRepository interface
type credentialRepository struct {
	db  *gorm.DB
	box *crypto.Box
}

// NewCredentialRepository creates a new instance of credentialRepository
func NewCredentialRepository(db *gorm.DB, box *crypto.Box) CredentialRepository {
	if box == nil {
		box = crypto.NewBox("")
	}
	return &credentialRepository{
		db:  db,
		box: box,
	}
}

func (r *credentialRepository) Get(ctx context.Context, userID, provider string) (*authdomain.Credential, error) {
	var cred authdomain.Credential
	err := r.db.WithContext(ctx).Where("user_id = ? AND provider = ?", userID, provider).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if cred.AccessToken, err = r.box.Decrypt(cred.AccessToken); err != nil {
		return nil, fmt.Errorf("decrypt access token: %w", err)
	}
	if cred.RefreshToken, err = r.box.Decrypt(cred.RefreshToken); err != nil {
		return nil, fmt.Errorf("decrypt refresh token: %w", err)
	}
	return &cred, nil
}

func (r *credentialRepository) UpdateToken(ctx context.Context, userID, provider string, update authdomain.TokenUpdate) error {
	accessToken, err := r.box.Encrypt(update.AccessToken)
	if err != nil {
		return err
	}
	fields := map[string]interface{}{
		"access_token": accessToken,
		"expires_at":   update.ExpiresAt,
		"updated_at":   time.Now().UTC(),
	}
	if update.RefreshToken != "" {
		refreshToken, err := r.box.Encrypt(update.RefreshToken)
		if err != nil {
			return err
		}
		fields["refresh_token"] = refreshToken
	}

	result := r.db.WithContext(ctx).Model(&authdomain.Credential{}).
		Where("user_id = ? AND provider = ?", userID, provider).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("credential for user %s vanished during refresh", userID)
	}
	return nil
}

func (r *credentialRepository) Upsert(ctx context.Context, cred *authdomain.Credential) error {
	if cred.ID == "" {
		cred.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now

	row := *cred
	var err error
	if row.AccessToken, err = r.box.Encrypt(cred.AccessToken); err != nil {
		return err
	}
	if row.RefreshToken, err = r.box.Encrypt(cred.RefreshToken); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at", "updated_at"}),
	}).Create(&row).Error
}

func (r *credentialRepository) ListLinkedUserIDs(ctx context.Context, provider string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&authdomain.Credential{}).
		Where("provider = ? AND refresh_token <> ''", provider).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}
