package dto

import (
	"time"

	"anoa.com/lostfound/internal/entity"
	commonDto "anoa.com/lostfound/pkg/dto"
	"github.com/google/uuid"
)

type CreateItemRequest struct {
	Name         string  `json:"item_name" binding:"required,max=150"`
	Description  string  `json:"item_description" binding:"required,max=5000"`
	Location     string  `json:"location" binding:"required,max=255"`
	Kind         string  `json:"item_type" binding:"required,oneof=lost found"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=30"`
	ImageURL     *string `json:"image_url" binding:"omitempty,url"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active resolved deleted"`
}

type ListItemsQuery struct {
	Kind   string `form:"item_type" binding:"omitempty,oneof=lost found"`
	Search string `form:"search" binding:"max=150"`
	Limit  int    `form:"limit" binding:"min=0,max=100"`
	Offset int    `form:"offset" binding:"min=0"`
}

type ItemResponse struct {
	ID           uuid.UUID         `json:"post_id"`
	UserID       uuid.UUID         `json:"user_id"`
	Name         string            `json:"item_name"`
	Description  string            `json:"item_description"`
	Location     string            `json:"location"`
	Kind         entity.ItemKind   `json:"item_type"`
	Status       entity.ItemStatus `json:"status"`
	ContactPhone *string           `json:"contact_phone,omitempty"`
	ImageURL     *string           `json:"image_url,omitempty"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
}

type ItemListResponse struct {
	Success bool                     `json:"success"`
	Count   int                      `json:"count"`
	Data    []ItemResponse           `json:"data"`
	Meta    commonDto.PaginationMeta `json:"meta"`
}

type StatusResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	ID      uuid.UUID         `json:"post_id"`
	Status  entity.ItemStatus `json:"status"`
}

func ToItemResponse(item *entity.ItemReport) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		UserID:       item.UserID,
		Name:         item.Name,
		Description:  item.Description,
		Location:     item.Location,
		Kind:         item.Kind,
		Status:       item.Status,
		ContactPhone: item.ContactPhone,
		ImageURL:     item.ImageURL,
		CreatedAt:    item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.Format(time.RFC3339),
	}
}

func ToItemResponses(items []entity.ItemReport) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, ToItemResponse(&items[i]))
	}
	return out
}
