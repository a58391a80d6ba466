package handler

import (
	"context"
	"fmt"
	"net/http"

	"anoa.com/lostfound/internal/entity"
	matchDto "anoa.com/lostfound/internal/modules/matching/dto"
	matching "anoa.com/lostfound/internal/modules/matching/service"
	"anoa.com/lostfound/pkg/response"
	"anoa.com/lostfound/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type matchService interface {
	OnFoundPostedByID(ctx context.Context, foundID uuid.UUID) (matching.DispatchReport, error)
	QueryMatchesForLostReportByID(ctx context.Context, lostID uuid.UUID) (*entity.ItemReport, []matching.MatchCandidate, error)
	QueryMatchesInline(ctx context.Context, name, location string) ([]matching.MatchCandidate, error)
}

type MatchHandler struct {
	service matchService
}

func NewMatchHandler(service matchService) *MatchHandler {
	return &MatchHandler{service: service}
}

// GetItemMatches lists active found reports ranked against a lost report.
func (h *MatchHandler) GetItemMatches(c *gin.Context) {
	lostID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	lost, matches, err := h.service.QueryMatchesForLostReportByID(c.Request.Context(), lostID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	data := matchDto.ToMatchResponses(matches)
	c.JSON(http.StatusOK, matchDto.MatchListResponse{
		Success:      true,
		Count:        len(data),
		SearchParams: matchDto.SearchParams{ItemName: lost.Name, Location: lost.Location},
		Data:         data,
	})
}

// SearchMatches ranks active found reports against an ad hoc name and location.
func (h *MatchHandler) SearchMatches(c *gin.Context) {
	var query matchDto.InlineMatchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	matches, err := h.service.QueryMatchesInline(c.Request.Context(), query.ItemName, query.Location)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	data := matchDto.ToMatchResponses(matches)
	c.JSON(http.StatusOK, matchDto.MatchListResponse{
		Success:      true,
		Count:        len(data),
		SearchParams: matchDto.SearchParams{ItemName: query.ItemName, Location: query.Location},
		Data:         data,
	})
}

// NotifyMatches re-runs the found-item notification fan-out.
func (h *MatchHandler) NotifyMatches(c *gin.Context) {
	if _, err := response.GetUserID(c); err != nil {
		response.ResponseError(c, err)
		return
	}

	foundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	report, err := h.service.OnFoundPostedByID(c.Request.Context(), foundID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, matchDto.NotifyMatchesResponse{
		Success:        true,
		Message:        fmt.Sprintf("Sent %d notifications for matching lost items", report.Sent),
		DispatchReport: report,
	})
}
