package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mediasales/internal/amqp"
	"mediasales/internal/core"
	"mediasales/internal/export"
	"mediasales/internal/report"
	"mediasales/internal/services"
)

// ExportWorker rebuilds the yearly rollup and pushes it to the exporter
// whenever a booking changes. It is driven by AMQP sync messages and an
// optional periodic tick.
type ExportWorker struct {
	bookings      services.BookingLister
	exporter      export.RollupExporter
	halfYearScope report.HalfYearScope

	// now is swappable in tests
	now func() time.Time
}

func NewExportWorker(bookings services.BookingLister, exporter export.RollupExporter, halfYearScope report.HalfYearScope) *ExportWorker {
	return &ExportWorker{
		bookings:      bookings,
		exporter:      exporter,
		halfYearScope: halfYearScope,
		now:           time.Now,
	}
}

// HandleSyncMessage processes one booking sync message. The message only
// signals that something changed; the worker recomputes the whole view.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.BookingSyncMessage) error {
	slog.InfoContext(ctx, "Processing booking sync message", "booking_id", msg.BookingID)
	return w.ExportOnce(ctx)
}

// ExportOnce recomputes the fiscal-year rollup and exports it.
func (w *ExportWorker) ExportOnce(ctx context.Context) error {
	records, err := w.bookings.ListBookings(ctx)
	if err != nil {
		return fmt.Errorf("list bookings: %w", err)
	}

	rows := report.Finalize(report.Aggregate(records, report.Params{
		Granularity:   core.Yearly,
		Today:         w.now().UTC(),
		HalfYearScope: w.halfYearScope,
	}))

	if err := w.exporter.ExportRollup(ctx, rows); err != nil {
		return fmt.Errorf("export rollup: %w", err)
	}

	slog.InfoContext(ctx, "Rollup export completed", "rows", len(rows))
	return nil
}

// RunPeriodic exports on a fixed interval until the context is cancelled.
// Failures are logged and retried on the next tick.
func (w *ExportWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic export", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.ExportOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		}
	}
}
