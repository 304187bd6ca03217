package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/voyatra/tripbook/internal/domain"
)

type BookingRepository interface {
	// CreateBatch reserves units on the resource and inserts the bookings as
	// one transaction. A failed capacity check leaves the ledger untouched and
	// returns ErrConflict.
	CreateBatch(ctx context.Context, resourceID int64, units int, bookings []*domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	MarkPaid(ctx context.Context, id int64, paymentRef string) (*domain.Booking, error)
	// Cancel marks the booking cancelled and restores one unit on its resource
	// in the same transaction. Returns ErrConflict if already cancelled.
	Cancel(ctx context.Context, id int64, reason string) (*domain.Booking, error)
	FindSiblings(ctx context.Context, seed *domain.Booking, window time.Duration) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, owner_id, kind, resource_id, trip, total_amount_cents, status, payment_status, payment_ref, cancellation_reason, cancelled_at, booked_at, created_at, updated_at`

func (r *PGBookingRepository) CreateBatch(ctx context.Context, resourceID int64, units int, bookings []*domain.Booking) error {
	if units <= 0 || len(bookings) == 0 {
		return fmt.Errorf("%w: empty batch", domain.ErrInvalidArgument)
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE resources SET available_units = available_units - $2, updated_at = now() WHERE id=$1 AND available_units >= $2`, resourceID, units)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: not enough available units", domain.ErrConflict)
	}

	for _, b := range bookings {
		if err := tx.QueryRow(ctx, `INSERT INTO bookings (owner_id, kind, resource_id, trip, total_amount_cents, status, payment_status, payment_ref, booked_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at`,
			b.OwnerID, b.Kind, b.ResourceID, b.Trip, b.TotalAmountCents, b.Status, b.PaymentStatus, b.PaymentRef, b.BookedAt).
			Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) MarkPaid(ctx context.Context, id int64, paymentRef string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET payment_status=$2, status=$3, payment_ref=$4, updated_at=now()
		WHERE id=$1 AND payment_status <> $2 AND status <> $5
		RETURNING `+bookingColumns,
		id, domain.PaymentStatusCompleted, domain.BookingStatusConfirmed, paymentRef, domain.BookingStatusCancelled)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, markPaidRejection(ctx, r, id)
		}
		return nil, err
	}
	return b, nil
}

// markPaidRejection re-reads the row to tell the zero-row cases apart: the
// booking may be gone, cancelled, or already paid.
func markPaidRejection(ctx context.Context, r *PGBookingRepository, id int64) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == domain.BookingStatusCancelled {
		return fmt.Errorf("%w: booking is cancelled", domain.ErrConflict)
	}
	return fmt.Errorf("%w: payment already completed", domain.ErrConflict)
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id int64, reason string) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$2, cancellation_reason=$3, cancelled_at=now(),
		payment_status = CASE WHEN payment_status=$4 THEN $5 ELSE payment_status END,
		updated_at=now()
		WHERE id=$1 AND status <> $2
		RETURNING `+bookingColumns,
		id, domain.BookingStatusCancelled, reason, domain.PaymentStatusCompleted, domain.PaymentStatusRefunded)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking already cancelled", domain.ErrConflict)
		}
		return nil, err
	}

	// Each cancellation restores exactly one unit. LEAST keeps available_units
	// from ever exceeding total_units.
	if _, err := tx.Exec(ctx, `UPDATE resources SET available_units = LEAST(available_units + 1, total_units), updated_at = now() WHERE id=$1`, b.ResourceID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// FindSiblings returns every booking that shares the seed's kind, resource and
// trip key, with booked_at inside the correlation window around the seed. The
// coarse filter runs in SQL, the trip-key match in Go so that the jsonb time
// encoding never has to be compared as text. Ordered by insertion order.
func (r *PGBookingRepository) FindSiblings(ctx context.Context, seed *domain.Booking, window time.Duration) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE kind=$1 AND resource_id=$2 AND booked_at BETWEEN $3 AND $4
		ORDER BY id`,
		seed.Kind, seed.ResourceID, seed.BookedAt.Add(-window), seed.BookedAt.Add(window))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	group := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		if !sameTripKey(&seed.Trip, &b.Trip) {
			continue
		}
		group = append(group, *b)
	}
	return group, rows.Err()
}

func sameTripKey(a, b *domain.TripSnapshot) bool {
	return timesEqual(a.DepartureTime, b.DepartureTime) &&
		timesEqual(a.CheckInDate, b.CheckInDate) &&
		timesEqual(a.CheckOutDate, b.CheckOutDate)
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.OwnerID, &b.Kind, &b.ResourceID, &b.Trip, &b.TotalAmountCents, &b.Status, &b.PaymentStatus, &b.PaymentRef, &b.CancellationReason, &b.CancelledAt, &b.BookedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
