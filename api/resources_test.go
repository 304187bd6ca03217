package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/voyatra/tripbook/internal/domain"
)

// MockResourceUseCase is a mock implementation of resources.ResourceUseCase
type MockResourceUseCase struct {
	mock.Mock
}

func (m *MockResourceUseCase) List(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).([]domain.Resource), args.Error(1)
}

func (m *MockResourceUseCase) GetByID(ctx context.Context, kind domain.ResourceKind, id int64) (*domain.Resource, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resource), args.Error(1)
}

func TestResourceHandler_list(t *testing.T) {
	mockService := &MockResourceUseCase{}
	handler := NewResourceHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "kind", Value: "flight"}}
	c.Request = httptest.NewRequest("GET", "/resources/flight", nil)

	list := []domain.Resource{
		{ID: 1, Kind: domain.KindFlight, Code: "FL1", TotalUnits: 180, AvailableUnits: 50, PriceCents: 4500},
	}
	mockService.On("List", c.Request.Context(), domain.KindFlight).Return(list, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestResourceHandler_list_unknownKind(t *testing.T) {
	mockService := &MockResourceUseCase{}
	handler := NewResourceHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "kind", Value: "cruise"}}
	c.Request = httptest.NewRequest("GET", "/resources/cruise", nil)

	handler.list(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "List")
}

func TestResourceHandler_get(t *testing.T) {
	mockService := &MockResourceUseCase{}
	handler := NewResourceHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "kind", Value: "hotel"}, {Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("GET", "/resources/hotel/7", nil)

	resource := &domain.Resource{ID: 7, Kind: domain.KindHotel, Code: "H1", TotalUnits: 20, AvailableUnits: 5, PriceCents: 3000}
	mockService.On("GetByID", c.Request.Context(), domain.KindHotel, int64(7)).Return(resource, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestResourceHandler_get_notFound(t *testing.T) {
	mockService := &MockResourceUseCase{}
	handler := NewResourceHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "kind", Value: "train"}, {Key: "id", Value: "404"}}
	c.Request = httptest.NewRequest("GET", "/resources/train/404", nil)

	mockService.On("GetByID", c.Request.Context(), domain.KindTrain, int64(404)).Return(nil, domain.ErrNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}
