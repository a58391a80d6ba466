package dto

import (
	"time"

	"anoa.com/lostfound/internal/entity"
	matching "anoa.com/lostfound/internal/modules/matching/service"
	"github.com/google/uuid"
)

type InlineMatchQuery struct {
	ItemName string `form:"item_name" binding:"required,max=150"`
	Location string `form:"location" binding:"required,max=255"`
}

type SearchParams struct {
	ItemName string `json:"item_name"`
	Location string `json:"location"`
}

type MatchResponse struct {
	ID          uuid.UUID         `json:"post_id"`
	UserID      uuid.UUID         `json:"user_id"`
	Name        string            `json:"item_name"`
	Description string            `json:"item_description"`
	Location    string            `json:"location"`
	Kind        entity.ItemKind   `json:"item_type"`
	Status      entity.ItemStatus `json:"status"`
	ImageURL    *string           `json:"image_url,omitempty"`
	CreatedAt   string            `json:"created_at"`
	MatchScore  int               `json:"match_score"`
}

type MatchListResponse struct {
	Success      bool            `json:"success"`
	Count        int             `json:"count"`
	SearchParams SearchParams    `json:"search_params"`
	Data         []MatchResponse `json:"data"`
}

type NotifyMatchesResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	matching.DispatchReport
}

func ToMatchResponses(matches []matching.MatchCandidate) []MatchResponse {
	out := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchResponse{
			ID:          m.Item.ID,
			UserID:      m.Item.UserID,
			Name:        m.Item.Name,
			Description: m.Item.Description,
			Location:    m.Item.Location,
			Kind:        m.Item.Kind,
			Status:      m.Item.Status,
			ImageURL:    m.Item.ImageURL,
			CreatedAt:   m.Item.CreatedAt.Format(time.RFC3339),
			MatchScore:  m.Score,
		})
	}
	return out
}
