package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"anoa.com/lostfound/internal/entity"
	itemDto "anoa.com/lostfound/internal/modules/item/dto"
	"anoa.com/lostfound/pkg/apperror"
	"anoa.com/lostfound/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeItemService struct {
	createErr error
	statusErr error
	gotReq    itemDto.CreateItemRequest
	gotStatus entity.ItemStatus
}

func (f *fakeItemService) CreateItem(_ context.Context, userID uuid.UUID, req itemDto.CreateItemRequest) (*itemDto.ItemResponse, error) {
	f.gotReq = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &itemDto.ItemResponse{ID: uuid.New(), UserID: userID, Name: req.Name}, nil
}

func (f *fakeItemService) GetItem(context.Context, uuid.UUID) (*itemDto.ItemResponse, error) {
	return nil, apperror.ErrNotFound
}

func (f *fakeItemService) ListItems(context.Context, itemDto.ListItemsQuery) (*itemDto.ItemListResponse, error) {
	return &itemDto.ItemListResponse{Success: true, Data: []itemDto.ItemResponse{}}, nil
}

func (f *fakeItemService) GetMyItems(context.Context, uuid.UUID, itemDto.ListItemsQuery) (*itemDto.ItemListResponse, error) {
	return &itemDto.ItemListResponse{Success: true, Data: []itemDto.ItemResponse{}}, nil
}

func (f *fakeItemService) UpdateStatus(_ context.Context, _, itemID uuid.UUID, status entity.ItemStatus) (*itemDto.StatusResponse, error) {
	f.gotStatus = status
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &itemDto.StatusResponse{Success: true, Message: "Post deleted", ID: itemID, Status: status}, nil
}

func (f *fakeItemService) Wait() {}

func newRouter(svc *fakeItemService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewItemHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	r.POST("/items", h.CreateItem)
	r.GET("/items", h.ListItems)
	r.GET("/items/:id", h.GetItem)
	r.PATCH("/items/:id/status", h.UpdateStatus)
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

const validItem = `{"item_name":"Wallet","item_description":"Brown","location":"Station","item_type":"found"}`

func TestCreateItem(t *testing.T) {
	svc := &fakeItemService{}

	w := do(newRouter(svc, uuid.NewString()), http.MethodPost, "/items", validItem)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Post created successfully")
	assert.Equal(t, "found", svc.gotReq.Kind)
}

func TestCreateItem_BindingErrors(t *testing.T) {
	svc := &fakeItemService{}
	r := newRouter(svc, uuid.NewString())

	w := do(r, http.MethodPost, "/items", `{"item_name":"Wallet","location":"Station","item_type":"stolen"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Item description is required")
	assert.Contains(t, w.Body.String(), "Item type must be one of: lost found")
}

func TestCreateItem_RequiresUser(t *testing.T) {
	w := do(newRouter(&fakeItemService{}, ""), http.MethodPost, "/items", validItem)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateItem_RateLimited(t *testing.T) {
	svc := &fakeItemService{createErr: &ratelimiter.RateLimitError{Message: "slow down", RetryAfter: 12 * time.Second}}

	w := do(newRouter(svc, uuid.NewString()), http.MethodPost, "/items", validItem)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "12", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"slow down"}`, w.Body.String())
}

func TestGetItem(t *testing.T) {
	r := newRouter(&fakeItemService{}, "")

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/items/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/items/42", "").Code)
}

func TestListItems_RejectsBadKind(t *testing.T) {
	r := newRouter(&fakeItemService{}, "")

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/items?item_type=lost&limit=10", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/items?item_type=misc", "").Code)
}

func TestUpdateStatus(t *testing.T) {
	svc := &fakeItemService{}
	r := newRouter(svc, uuid.NewString())

	w := do(r, http.MethodPatch, "/items/"+uuid.NewString()+"/status", `{"status":"deleted"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.ItemStatusDeleted, svc.gotStatus)

	w = do(r, http.MethodPatch, "/items/"+uuid.NewString()+"/status", `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.statusErr = apperror.ErrForbidden
	w = do(r, http.MethodPatch, "/items/"+uuid.NewString()+"/status", `{"status":"resolved"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
