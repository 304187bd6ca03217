package domain

import "time"

type BookingKind string

const (
	BookingKindFlight BookingKind = "flight"
	BookingKindTrain  BookingKind = "train"
	BookingKindHotel  BookingKind = "hotel"
	// BookingKindMulti is declared in the schema but never produced by the
	// lifecycle. Reserved for combined flight+hotel itineraries.
	BookingKindMulti BookingKind = "multi"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusFailed    BookingStatus = "failed"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// TripSnapshot is the historical record of what was booked, captured once at
// creation from the resource row plus the supplied passenger or guest details.
// It never changes, even if the underlying resource is later rescheduled.
type TripSnapshot struct {
	RouteCode       string     `json:"route_code,omitempty"`
	Source          string     `json:"source,omitempty"`
	Destination     string     `json:"destination,omitempty"`
	DepartureTime   *time.Time `json:"departure_time,omitempty"`
	ArrivalTime     *time.Time `json:"arrival_time,omitempty"`
	PassengerName   string     `json:"passenger_name,omitempty"`
	PassengerAge    int        `json:"passenger_age,omitempty"`
	PassengerGender string     `json:"passenger_gender,omitempty"`
	Location        string     `json:"location,omitempty"`
	CheckInDate     *time.Time `json:"check_in_date,omitempty"`
	CheckOutDate    *time.Time `json:"check_out_date,omitempty"`
	Nights          int        `json:"nights,omitempty"`
	PrimaryGuest    string     `json:"primary_guest,omitempty"`
	NumberOfGuests  int        `json:"number_of_guests,omitempty"`
}

// Booking is one claim against a resource's capacity. BookedAt is the
// correlation key for group reconstruction: bookings created in one bulk call
// share a single BookedAt instant.
type Booking struct {
	ID                 int64
	OwnerID            string
	Kind               BookingKind
	ResourceID         int64
	Trip               TripSnapshot
	TotalAmountCents   int64
	Status             BookingStatus
	PaymentStatus      PaymentStatus
	PaymentRef         string
	CancellationReason string
	CancelledAt        *time.Time
	BookedAt           time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
