package dto

import "triage-backend/internal/item/domain"

type CreateTaskRequest struct {
	Title   string  `json:"title" binding:"required"`
	Lane    string  `json:"lane" binding:"required"`
	Snippet *string `json:"snippet"`
}

type MoveItemRequest struct {
	Lane string `json:"lane" binding:"required"`
}

type RenameItemRequest struct {
	Title string `json:"title" binding:"required"`
}

type ItemListResponse struct {
	Items []*domain.Item `json:"items"`
	Total int            `json:"total"`
}
