package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/voyatra/tripbook/internal/domain"
	"github.com/voyatra/tripbook/internal/service/booking"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CreateBulkBooking(ctx context.Context, input booking.CreateBulkBookingInput) ([]domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ProcessPayment(ctx context.Context, bookingID int64, ownerID string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, bookingID int64, ownerID, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, ownerID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) FindGroup(ctx context.Context, bookingID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{
		Kind:       "flight",
		ResourceID: 1,
		Passenger:  &booking.PassengerInput{Name: "A", Age: 30},
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-User-ID", "user1")

	created := &domain.Booking{
		ID:               11,
		OwnerID:          "user1",
		Kind:             domain.BookingKindFlight,
		ResourceID:       1,
		TotalAmountCents: 4500,
		Status:           domain.BookingStatusConfirmed,
		PaymentStatus:    domain.PaymentStatusCompleted,
		BookedAt:         time.Now(),
	}

	mockService.On("CreateBooking", c.Request.Context(), mock.MatchedBy(func(in booking.CreateBookingInput) bool {
		return in.OwnerID == "user1" && in.Kind == domain.KindFlight && in.ResourceID == 1
	})).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(11), response.ID)
	assert.Equal(t, string(domain.BookingStatusConfirmed), response.Status)
	assert.Equal(t, int64(4500), response.TotalAmountCents)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_missingUser(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader([]byte(`{}`)))

	handler.create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_createBulk(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBulkBookingRequest{
		Kind:       "train",
		ResourceID: 2,
		Passengers: []booking.PassengerInput{{Name: "A"}, {Name: "B"}},
	})
	c.Request = httptest.NewRequest("POST", "/bookings/bulk", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-User-ID", "user1")

	created := []domain.Booking{
		{ID: 1, Kind: domain.BookingKindTrain, BookedAt: time.Now()},
		{ID: 2, Kind: domain.BookingKindTrain, BookedAt: time.Now()},
	}
	mockService.On("CreateBulkBooking", c.Request.Context(), mock.Anything).Return(created, nil)

	handler.createBulk(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response []bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_pay_conflict(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	c.Request = httptest.NewRequest("POST", "/bookings/5/payment", nil)
	c.Request.Header.Set("X-User-ID", "user1")

	mockService.On("ProcessPayment", c.Request.Context(), int64(5), "user1").Return(nil, domain.ErrConflict)

	handler.pay(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	body := []byte(`{"reason":"plans changed"}`)
	c.Request = httptest.NewRequest("DELETE", "/bookings/9", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-User-ID", "user1")

	now := time.Now()
	cancelled := &domain.Booking{
		ID:                 9,
		OwnerID:            "user1",
		Kind:               domain.BookingKindHotel,
		Status:             domain.BookingStatusCancelled,
		PaymentStatus:      domain.PaymentStatusRefunded,
		CancellationReason: "plans changed",
		CancelledAt:        &now,
		BookedAt:           now,
	}
	mockService.On("CancelBooking", c.Request.Context(), int64(9), "user1", "plans changed").Return(cancelled, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusCancelled), response.Status)
	assert.Equal(t, string(domain.PaymentStatusRefunded), response.PaymentStatus)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_group(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	c.Request = httptest.NewRequest("GET", "/bookings/3/group", nil)

	group := []domain.Booking{
		{ID: 3, Trip: domain.TripSnapshot{PassengerName: "A"}, BookedAt: time.Now()},
		{ID: 4, Trip: domain.TripSnapshot{PassengerName: "B"}, BookedAt: time.Now()},
	}
	mockService.On("FindGroup", c.Request.Context(), int64(3)).Return(group, nil)

	handler.group(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)
	assert.Equal(t, "A", response[0].Trip.PassengerName)

	mockService.AssertExpectations(t)
}
