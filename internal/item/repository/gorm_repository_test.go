package repository

import (
	"context"
	"testing"
	"time"

	"triage-backend/internal/item/domain"
	"triage-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func emailItem(userID, messageID string, createdAt time.Time) *domain.Item {
	return &domain.Item{
		UserID:            userID,
		Type:              domain.TypeEmail,
		Lane:              domain.LaneRead,
		Status:            domain.StatusActive,
		Title:             "subject " + messageID,
		ProviderMessageID: strPtr(messageID),
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
}

func TestInsertEmailIfAbsentSkipsDuplicate(t *testing.T) {
	repo := NewGormItemRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	inserted, err := repo.InsertEmailIfAbsent(ctx, emailItem("u1", "m1", base))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertEmailIfAbsent(ctx, emailItem("u1", "m1", base.Add(time.Second)))
	require.NoError(t, err)
	assert.False(t, inserted)

	// Same message id for another user is a distinct item.
	inserted, err = repo.InsertEmailIfAbsent(ctx, emailItem("u2", "m1", base))
	require.NoError(t, err)
	assert.True(t, inserted)

	items, err := repo.List(ctx, "u1", domain.ListFilter{IncludeCleared: true})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestTasksWithoutMessageIDDoNotCollide(t *testing.T) {
	repo := NewGormItemRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, &domain.Item{
			UserID: "u1", Type: domain.TypeTask, Lane: domain.LaneAction, Status: domain.StatusActive,
			Title: "task", IsRead: true, CreatedAt: base.Add(time.Duration(i) * time.Second), UpdatedAt: base,
		}))
	}

	items, err := repo.List(ctx, "u1", domain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestListOrderingAndFilters(t *testing.T) {
	repo := NewGormItemRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	third := emailItem("u1", "m3", base.Add(3*time.Minute))
	first := emailItem("u1", "m1", base.Add(1*time.Minute))
	second := emailItem("u1", "m2", base.Add(2*time.Minute))
	second.Lane = domain.LaneReply
	for _, it := range []*domain.Item{third, first, second} {
		_, err := repo.InsertEmailIfAbsent(ctx, it)
		require.NoError(t, err)
	}

	first.Clear(base.Add(10 * time.Minute))
	require.NoError(t, repo.Update(ctx, first))

	active, err := repo.List(ctx, "u1", domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, []string{second.ID, third.ID}, []string{active[0].ID, active[1].ID})

	all, err := repo.List(ctx, "u1", domain.ListFilter{IncludeCleared: true})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, domain.StatusCleared, all[0].Status)
	require.NotNil(t, all[0].ClearedAt)

	reply := domain.LaneReply
	byLane, err := repo.List(ctx, "u1", domain.ListFilter{Lane: &reply})
	require.NoError(t, err)
	require.Len(t, byLane, 1)
	assert.Equal(t, second.ID, byLane[0].ID)

	task := domain.TypeTask
	byType, err := repo.List(ctx, "u1", domain.ListFilter{Type: &task})
	require.NoError(t, err)
	assert.Empty(t, byType)
}

func TestFindUpdateDeleteAreOwnerScoped(t *testing.T) {
	repo := NewGormItemRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	item := emailItem("owner", "m1", base)
	_, err := repo.InsertEmailIfAbsent(ctx, item)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, "intruder", item.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	foreign := *item
	foreign.UserID = "intruder"
	foreign.Lane = domain.LaneAction
	assert.ErrorIs(t, repo.Update(ctx, &foreign), domain.ErrNotFound)

	deleted, err := repo.Delete(ctx, "intruder", item.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	found, err = repo.FindByID(ctx, "owner", item.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.LaneRead, found.Lane)

	deleted, err = repo.Delete(ctx, "owner", item.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestProviderMessageIDs(t *testing.T) {
	repo := NewGormItemRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		_, err := repo.InsertEmailIfAbsent(ctx, emailItem("u1", id, base))
		require.NoError(t, err)
	}
	_, err := repo.InsertEmailIfAbsent(ctx, emailItem("u2", "c", base))
	require.NoError(t, err)

	ids, err := repo.ProviderMessageIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, ids)
}
