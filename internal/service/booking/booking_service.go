package booking

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/voyatra/tripbook/internal/domain"
	"github.com/voyatra/tripbook/internal/kafka"
	"github.com/voyatra/tripbook/internal/repository"
	"go.uber.org/zap"
)

// BookingUseCase is the booking lifecycle manager: creation, bulk creation,
// payment, cancellation and the read-only group reconstruction.
type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CreateBulkBooking(ctx context.Context, input CreateBulkBookingInput) ([]domain.Booking, error)
	ProcessPayment(ctx context.Context, bookingID int64, ownerID string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64, ownerID, reason string) (*domain.Booking, error)
	FindGroup(ctx context.Context, bookingID int64) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// DefaultGroupWindow is the booked_at correlation window used to reconstruct
// sibling bookings of one real-world trip.
const DefaultGroupWindow = 5 * time.Minute

type BookingService struct {
	bookings           repository.BookingRepository
	resources          repository.ResourceRepository
	producer           Producer
	log                *zap.Logger
	eventsTopic        string
	notificationsTopic string
	groupWindow        time.Duration
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithGroupWindow(window time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.groupWindow = window
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	resources repository.ResourceRepository,
	producer Producer,
	log *zap.Logger,
	eventsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		resources:   resources,
		producer:    producer,
		log:         log,
		eventsTopic: eventsTopic,
		groupWindow: DefaultGroupWindow,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type PassengerInput struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

type HotelStayInput struct {
	CheckInDate    time.Time `json:"check_in_date"`
	CheckOutDate   time.Time `json:"check_out_date"`
	PrimaryGuest   string    `json:"primary_guest"`
	NumberOfGuests int       `json:"number_of_guests"`
}

type CreateBookingInput struct {
	Kind       domain.ResourceKind `json:"kind"`
	ResourceID int64               `json:"resource_id"`
	OwnerID    string              `json:"owner_id"`
	OwnerName  string              `json:"owner_name"`
	Passenger  *PassengerInput     `json:"passenger,omitempty"`
	Stay       *HotelStayInput     `json:"stay,omitempty"`
}

type CreateBulkBookingInput struct {
	Kind       domain.ResourceKind `json:"kind"`
	ResourceID int64               `json:"resource_id"`
	OwnerID    string              `json:"owner_id"`
	OwnerName  string              `json:"owner_name"`
	Passengers []PassengerInput    `json:"passengers"`
	Stay       *HotelStayInput     `json:"stay,omitempty"`
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	bulk := CreateBulkBookingInput{
		Kind:       input.Kind,
		ResourceID: input.ResourceID,
		OwnerID:    input.OwnerID,
		OwnerName:  input.OwnerName,
		Stay:       input.Stay,
	}
	if input.Kind != domain.KindHotel {
		if input.Passenger == nil {
			return nil, fmt.Errorf("%w: passenger details are required", domain.ErrInvalidArgument)
		}
		bulk.Passengers = []PassengerInput{*input.Passenger}
	}

	created, err := s.CreateBulkBooking(ctx, bulk)
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

func (s *BookingService) CreateBulkBooking(ctx context.Context, input CreateBulkBookingInput) ([]domain.Booking, error) {
	if !input.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown resource kind %q", domain.ErrInvalidArgument, input.Kind)
	}
	if input.OwnerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrInvalidArgument)
	}

	resource, err := s.resources.GetByID(ctx, input.Kind, input.ResourceID)
	if err != nil {
		return nil, err
	}

	// One timestamp for the whole batch. Group reconstruction correlates
	// siblings on booked_at, so every record must carry the same instant.
	bookedAt := time.Now().UTC()

	var bookings []*domain.Booking
	var units int
	if input.Kind == domain.KindHotel {
		b, err := buildHotelBooking(resource, input, bookedAt)
		if err != nil {
			return nil, err
		}
		bookings = []*domain.Booking{b}
		units = 1
	} else {
		if len(input.Passengers) == 0 {
			return nil, fmt.Errorf("%w: at least one passenger is required", domain.ErrInvalidArgument)
		}
		for _, p := range input.Passengers {
			b, err := buildSeatBooking(resource, input, p, bookedAt)
			if err != nil {
				return nil, err
			}
			bookings = append(bookings, b)
		}
		units = len(input.Passengers)
	}

	if err := s.bookings.CreateBatch(ctx, resource.ID, units, bookings); err != nil {
		return nil, err
	}

	created := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		created = append(created, *b)
		s.publish(ctx, kafka.EventBookingCreated, b)
	}
	return created, nil
}

func (s *BookingService) ProcessPayment(ctx context.Context, bookingID int64, ownerID string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: booking belongs to another user", domain.ErrForbidden)
	}
	// Cancelled is terminal: its unit is already restored, so paying it would
	// revive a booking that holds no capacity.
	if current.Status == domain.BookingStatusCancelled {
		return nil, fmt.Errorf("%w: booking is cancelled", domain.ErrConflict)
	}
	if current.PaymentStatus == domain.PaymentStatusCompleted {
		return nil, fmt.Errorf("%w: payment already completed", domain.ErrConflict)
	}

	return s.bookings.MarkPaid(ctx, bookingID, uuid.NewString())
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64, ownerID, reason string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: booking belongs to another user", domain.ErrForbidden)
	}
	if current.Status == domain.BookingStatusCancelled {
		return nil, fmt.Errorf("%w: booking already cancelled", domain.ErrConflict)
	}

	updated, err := s.bookings.Cancel(ctx, bookingID, reason)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCancelled, updated)
	return updated, nil
}

// FindGroup reconstructs the set of bookings made together with the given one:
// same kind, same resource and trip key, booked within the correlation window.
// A group of size one is the normal result for a single booking.
func (s *BookingService) FindGroup(ctx context.Context, bookingID int64) ([]domain.Booking, error) {
	seed, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	group, err := s.bookings.FindSiblings(ctx, seed, s.groupWindow)
	if err != nil {
		return nil, err
	}
	if len(group) == 0 {
		group = []domain.Booking{*seed}
	}
	return group, nil
}

func buildSeatBooking(resource *domain.Resource, input CreateBulkBookingInput, p PassengerInput, bookedAt time.Time) (*domain.Booking, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("%w: passenger name is required", domain.ErrInvalidArgument)
	}
	if p.Age < 0 {
		return nil, fmt.Errorf("%w: passenger age must not be negative", domain.ErrInvalidArgument)
	}

	return &domain.Booking{
		OwnerID:    input.OwnerID,
		Kind:       domain.BookingKind(input.Kind),
		ResourceID: resource.ID,
		Trip: domain.TripSnapshot{
			RouteCode:       resource.Code,
			Source:          resource.Source,
			Destination:     resource.Destination,
			DepartureTime:   resource.DepartureTime,
			ArrivalTime:     resource.ArrivalTime,
			PassengerName:   p.Name,
			PassengerAge:    p.Age,
			PassengerGender: p.Gender,
		},
		TotalAmountCents: resource.PriceCents,
		Status:           domain.BookingStatusConfirmed,
		PaymentStatus:    domain.PaymentStatusCompleted,
		PaymentRef:       uuid.NewString(),
		BookedAt:         bookedAt,
	}, nil
}

func buildHotelBooking(resource *domain.Resource, input CreateBulkBookingInput, bookedAt time.Time) (*domain.Booking, error) {
	if input.Stay == nil {
		return nil, fmt.Errorf("%w: check-in and check-out dates are required", domain.ErrInvalidArgument)
	}
	stay := *input.Stay
	if !stay.CheckOutDate.After(stay.CheckInDate) {
		return nil, fmt.Errorf("%w: check-out must be after check-in", domain.ErrInvalidArgument)
	}
	today := bookedAt.Truncate(24 * time.Hour)
	if stay.CheckInDate.Before(today) {
		return nil, fmt.Errorf("%w: check-in must not be in the past", domain.ErrInvalidArgument)
	}

	if stay.PrimaryGuest == "" {
		stay.PrimaryGuest = input.OwnerName
	}
	if stay.PrimaryGuest == "" {
		stay.PrimaryGuest = input.OwnerID
	}
	if stay.NumberOfGuests <= 0 {
		stay.NumberOfGuests = 1
	}

	nights := Nights(stay.CheckInDate, stay.CheckOutDate)
	checkIn := stay.CheckInDate
	checkOut := stay.CheckOutDate

	return &domain.Booking{
		OwnerID:    input.OwnerID,
		Kind:       domain.BookingKindHotel,
		ResourceID: resource.ID,
		Trip: domain.TripSnapshot{
			Location:       resource.Location,
			CheckInDate:    &checkIn,
			CheckOutDate:   &checkOut,
			Nights:         nights,
			PrimaryGuest:   stay.PrimaryGuest,
			NumberOfGuests: stay.NumberOfGuests,
		},
		TotalAmountCents: resource.PriceCents * int64(nights),
		Status:           domain.BookingStatusConfirmed,
		PaymentStatus:    domain.PaymentStatusCompleted,
		PaymentRef:       uuid.NewString(),
		BookedAt:         bookedAt,
	}, nil
}

// Nights charges per started night: ceil((checkOut - checkIn) / 24h).
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:             eventType,
		BookingID:        b.ID,
		OwnerID:          b.OwnerID,
		Kind:             string(b.Kind),
		ResourceID:       b.ResourceID,
		RouteCode:        b.Trip.RouteCode,
		Location:         b.Trip.Location,
		TotalAmountCents: b.TotalAmountCents,
		Status:           string(b.Status),
		PaymentStatus:    string(b.PaymentStatus),
		BookedAt:         b.BookedAt,
	}
	key := strconv.FormatInt(b.ID, 10)
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		s.log.Warn("publish booking event failed", zap.String("type", eventType), zap.Int64("booking_id", b.ID), zap.Error(err))
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			s.log.Warn("publish notification failed", zap.String("type", eventType), zap.Int64("booking_id", b.ID), zap.Error(err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
