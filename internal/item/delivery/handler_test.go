package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"triage-backend/internal/item/domain"
	itemdto "triage-backend/internal/item/dto"
	"triage-backend/internal/item/repository"
	"triage-backend/internal/item/usecase"
	"triage-backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopReconciler struct{}

func (noopReconciler) PropagateRead(context.Context, string, string) {}

func newRouter(t *testing.T, userID string, uc usecase.ItemUsecase) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewItemHandler(uc)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", userID); c.Next() })
	items := r.Group("/api/items")
	items.GET("", h.GetItems)
	items.POST("", h.CreateTask)
	items.POST("/:id/clear", h.ClearItem)
	items.POST("/:id/restore", h.RestoreItem)
	items.POST("/:id/read", h.MarkAsRead)
	items.PATCH("/:id/lane", h.MoveItem)
	items.PATCH("/:id/title", h.RenameItem)
	items.DELETE("/:id", h.DeleteItem)
	return r
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestItemLifecycleOverHTTP(t *testing.T) {
	uc := usecase.NewItemUsecase(repository.NewGormItemRepository(testutil.NewTestDB(t)), noopReconciler{})
	r := newRouter(t, "u1", uc)

	w := do(r, http.MethodPost, "/api/items", gin.H{"title": "pay rent", "lane": "action"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, domain.TypeTask, created.Type)

	w = do(r, http.MethodPatch, "/api/items/"+created.ID+"/lane", gin.H{"lane": "reply"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/items/"+created.ID+"/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list itemdto.ItemListResponse
	w = do(r, http.MethodGet, "/api/items", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Total)
	assert.NotNil(t, list.Items)

	w = do(r, http.MethodGet, "/api/items?all=true&lane=reply", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, domain.StatusCleared, list.Items[0].Status)

	w = do(r, http.MethodPost, "/api/items/"+created.ID+"/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPatch, "/api/items/"+created.ID+"/title", gin.H{"title": "pay rent today"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pay rent today")

	w = do(r, http.MethodDelete, "/api/items/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestItemErrorsOverHTTP(t *testing.T) {
	uc := usecase.NewItemUsecase(repository.NewGormItemRepository(testutil.NewTestDB(t)), noopReconciler{})
	owner := newRouter(t, "owner", uc)
	other := newRouter(t, "other", uc)

	w := do(owner, http.MethodPost, "/api/items", gin.H{"title": "x", "lane": "urgent"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(owner, http.MethodPost, "/api/items", gin.H{"lane": "read"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(owner, http.MethodGet, "/api/items?type=memo", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(owner, http.MethodPost, "/api/items", gin.H{"title": "mine", "lane": "read"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/items/" + created.ID + "/clear"},
		{http.MethodPost, "/api/items/" + created.ID + "/read"},
		{http.MethodDelete, "/api/items/" + created.ID},
		{http.MethodPost, "/api/items/missing/restore"},
	} {
		w = do(other, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
	}

	w = do(owner, http.MethodPatch, "/api/items/"+created.ID+"/lane", gin.H{"lane": "later"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
