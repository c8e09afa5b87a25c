package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"triage-backend/internal/item/domain"
	itemdto "triage-backend/internal/item/dto"
	"triage-backend/internal/item/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ItemHandler handles item-related HTTP requests
type ItemHandler struct {
	itemUsecase usecase.ItemUsecase
}

func NewItemHandler(itemUsecase usecase.ItemUsecase) *ItemHandler {
	return &ItemHandler{
		itemUsecase: itemUsecase,
	}
}

// GetItems returns the caller's items
// GET /api/items?all=true&lane=reply&type=email&q=invoice
func (h *ItemHandler) GetItems(c *gin.Context) {
	userID := c.GetString("userID")

	var filter domain.ListFilter
	filter.IncludeCleared, _ = strconv.ParseBool(c.DefaultQuery("all", "false"))
	if lane := c.Query("lane"); lane != "" {
		l := domain.Lane(lane)
		filter.Lane = &l
	}
	if itemType := c.Query("type"); itemType != "" {
		t := domain.ItemType(itemType)
		filter.Type = &t
	}
	filter.Query = c.Query("q")

	items, err := h.itemUsecase.List(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []*domain.Item{}
	}

	c.JSON(http.StatusOK, itemdto.ItemListResponse{Items: items, Total: len(items)})
}

// CreateTask creates a user task
// POST /api/items
func (h *ItemHandler) CreateTask(c *gin.Context) {
	userID := c.GetString("userID")

	var req itemdto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.itemUsecase.CreateTask(c.Request.Context(), userID, usecase.CreateTaskInput{
		Title:   req.Title,
		Lane:    req.Lane,
		Snippet: req.Snippet,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ClearItem POST /api/items/:id/clear
func (h *ItemHandler) ClearItem(c *gin.Context) {
	item, err := h.itemUsecase.Clear(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	respondItem(c, item, err)
}

// RestoreItem POST /api/items/:id/restore
func (h *ItemHandler) RestoreItem(c *gin.Context) {
	item, err := h.itemUsecase.Restore(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	respondItem(c, item, err)
}

// MarkAsRead POST /api/items/:id/read
func (h *ItemHandler) MarkAsRead(c *gin.Context) {
	item, err := h.itemUsecase.MarkRead(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	respondItem(c, item, err)
}

// MoveItem changes the lane of an item
// PATCH /api/items/:id/lane
func (h *ItemHandler) MoveItem(c *gin.Context) {
	var req itemdto.MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.itemUsecase.Move(c.Request.Context(), c.GetString("userID"), c.Param("id"), domain.Lane(req.Lane))
	respondItem(c, item, err)
}

// RenameItem PATCH /api/items/:id/title
func (h *ItemHandler) RenameItem(c *gin.Context) {
	var req itemdto.RenameItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.itemUsecase.Rename(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Title)
	respondItem(c, item, err)
}

// DeleteItem DELETE /api/items/:id
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.itemUsecase.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondItem(c *gin.Context, item *domain.Item, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func respondError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	default:
		logrus.WithError(err).WithField("user_id", c.GetString("userID")).Error("item request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
