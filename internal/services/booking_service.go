package services

import (
	"context"
	"fmt"
	"log/slog"

	"mediasales/internal/amqp"
	"mediasales/internal/core"
	"mediasales/internal/storage"
)

// BookingService orchestrates booking writes across SQLite and AMQP.
type BookingService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewBookingService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *BookingService {
	return &BookingService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateBooking saves a booking locally and publishes a sync message so
// the worker refreshes the exported rollup. The publish is best effort,
// a broker outage never fails the write.
func (s *BookingService) CreateBooking(ctx context.Context, rec core.Record) (int64, error) {
	id, err := s.storage.CreateBooking(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("save booking: %w", err)
	}

	if err := s.publishSyncMessage(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"booking_id", id, "error", err)
	}

	return id, nil
}

// GetBooking returns a single stored booking by id.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*core.Record, error) {
	return s.storage.GetBooking(ctx, id)
}

func (s *BookingService) publishSyncMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishBookingSync(ctx, id)
}

// Close closes both storage and AMQP connections.
func (s *BookingService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close booking service: %v", errs)
	}

	return nil
}
