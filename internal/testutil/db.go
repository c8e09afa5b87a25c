package testutil

import (
	"testing"
	"time"

	authdomain "triage-backend/internal/auth/domain"
	emaildomain "triage-backend/internal/email/domain"
	itemdomain "triage-backend/internal/item/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database closed at test end.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every pooled connection would otherwise see its own empty database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

// Models lists every persisted model.
func Models() []interface{} {
	return []interface{}{
		&itemdomain.Item{},
		&authdomain.Credential{},
		&emaildomain.SyncState{},
	}
}

// Clock returns a strictly increasing UTC clock starting at start.
func Clock(start time.Time, step time.Duration) func() time.Time {
	current := start.Add(-step)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}
