package handler

import (
	"net/http"

	"anoa.com/lostfound/internal/entity"
	search "anoa.com/lostfound/internal/modules/search/service"
	"anoa.com/lostfound/pkg/response"
	"anoa.com/lostfound/pkg/validator"
	"github.com/gin-gonic/gin"
)

type searchQuery struct {
	Q      string `form:"q" binding:"max=200"`
	Kind   string `form:"item_type" binding:"omitempty,oneof=lost found"`
	Limit  int    `form:"limit" binding:"min=0,max=100"`
	Offset int    `form:"offset" binding:"min=0"`
}

type SearchHandler struct {
	service search.Service
}

func NewSearchHandler(service search.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) SearchItems(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.service.Search(c.Request.Context(), search.Query{
		Text:   q.Q,
		Kind:   entity.ItemKind(q.Kind),
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
