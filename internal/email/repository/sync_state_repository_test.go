package repository

import (
	"context"
	"testing"

	"triage-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncStateRecordUpserts(t *testing.T) {
	repo := NewSyncStateRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	state, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, state)

	require.NoError(t, repo.Record(ctx, "u1", 3, "p2"))
	require.NoError(t, repo.Record(ctx, "u1", 0, ""))

	state, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, 0, state.LastSyncedCount)
	assert.Equal(t, "", state.NextPageToken)
	assert.NotNil(t, state.LastSyncAt)
}
