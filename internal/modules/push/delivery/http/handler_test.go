package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeviceService struct {
	user     uuid.UUID
	token    string
	platform string
}

func (f *fakeDeviceService) RegisterToken(_ context.Context, userID uuid.UUID, token, platform string) error {
	f.user, f.token, f.platform = userID, token, platform
	return nil
}

func put(svc *fakeDeviceService, userID, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	r.PUT("/devices/token", NewDeviceHandler(svc).RegisterToken)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/devices/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterToken(t *testing.T) {
	svc := &fakeDeviceService{}
	user := uuid.New()

	w := put(svc, user.String(), `{"fcm_token":"abc","platform":"ios"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user, svc.user)
	assert.Equal(t, "abc", svc.token)
	assert.Equal(t, "ios", svc.platform)
}

func TestRegisterToken_Invalid(t *testing.T) {
	svc := &fakeDeviceService{}

	assert.Equal(t, http.StatusBadRequest, put(svc, uuid.NewString(), `{"platform":"ios"}`).Code)
	assert.Equal(t, http.StatusBadRequest, put(svc, uuid.NewString(), `{"fcm_token":"abc","platform":"symbian"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, put(svc, "", `{"fcm_token":"abc"}`).Code)
}
