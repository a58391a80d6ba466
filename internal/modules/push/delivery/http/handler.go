package handler

import (
	"net/http"

	pushDto "anoa.com/lostfound/internal/modules/push/dto"
	push "anoa.com/lostfound/internal/modules/push/service"
	"anoa.com/lostfound/pkg/response"
	"anoa.com/lostfound/pkg/validator"
	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	service push.DeviceService
}

func NewDeviceHandler(service push.DeviceService) *DeviceHandler {
	return &DeviceHandler{service: service}
}

func (h *DeviceHandler) RegisterToken(c *gin.Context) {
	var req pushDto.RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.RegisterToken(c.Request.Context(), userID, req.Token, req.Platform); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "FCM token updated successfully"})
}
