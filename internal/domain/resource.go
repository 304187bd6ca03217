package domain

import "time"

type ResourceKind string

const (
	KindFlight ResourceKind = "flight"
	KindTrain  ResourceKind = "train"
	KindHotel  ResourceKind = "hotel"
)

func (k ResourceKind) Valid() bool {
	switch k {
	case KindFlight, KindTrain, KindHotel:
		return true
	}
	return false
}

// Resource is a bookable capacity-bearing entity. One unit means a seat for
// flights and trains and a room for hotels. AvailableUnits is mutated only by
// the booking lifecycle, through conditional updates that keep
// 0 <= AvailableUnits <= TotalUnits.
type Resource struct {
	ID             int64
	Kind           ResourceKind
	Code           string
	Name           string
	Source         string
	Destination    string
	Location       string
	DepartureTime  *time.Time
	ArrivalTime    *time.Time
	TotalUnits     int
	AvailableUnits int
	PriceCents     int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
