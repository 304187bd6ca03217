package notify

import (
	"context"

	"github.com/voyatra/tripbook/internal/kafka"
	"go.uber.org/zap"
)

// Sink feeds booking lifecycle events to the reporting dashboard. The current
// implementation writes structured log lines the dashboard tails.
type Sink struct {
	log *zap.Logger
}

func NewSink(log *zap.Logger) *Sink {
	return &Sink{log: log}
}

func (s *Sink) Handle(ctx context.Context, event kafka.BookingEvent) error {
	s.log.Info("booking event",
		zap.String("type", event.Type),
		zap.Int64("booking_id", event.BookingID),
		zap.String("owner_id", event.OwnerID),
		zap.String("kind", event.Kind),
		zap.Int64("resource_id", event.ResourceID),
		zap.Int64("total_amount_cents", event.TotalAmountCents),
		zap.String("status", event.Status),
		zap.String("payment_status", event.PaymentStatus),
	)
	return nil
}
