package repository

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/voyatra/tripbook/internal/domain"
)

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}

func TestSameTripKey(t *testing.T) {
	dep := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	sameDep := dep.In(time.FixedZone("MSK", 3*3600))
	otherDep := dep.Add(24 * time.Hour)

	a := &domain.TripSnapshot{DepartureTime: &dep}
	b := &domain.TripSnapshot{DepartureTime: &sameDep}
	c := &domain.TripSnapshot{DepartureTime: &otherDep}

	assert.True(t, sameTripKey(a, b), "same instant in another zone is the same trip")
	assert.False(t, sameTripKey(a, c))
	assert.False(t, sameTripKey(a, &domain.TripSnapshot{}))

	in := dep
	out := dep.AddDate(0, 0, 3)
	h1 := &domain.TripSnapshot{CheckInDate: &in, CheckOutDate: &out}
	h2 := &domain.TripSnapshot{CheckInDate: &in, CheckOutDate: &out}
	assert.True(t, sameTripKey(h1, h2))

	laterOut := out.AddDate(0, 0, 1)
	h3 := &domain.TripSnapshot{CheckInDate: &in, CheckOutDate: &laterOut}
	assert.False(t, sameTripKey(h1, h3))
}
