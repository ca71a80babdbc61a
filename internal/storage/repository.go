package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mediasales/internal/core"

	_ "modernc.org/sqlite"
)

// timeLayout is how booking timestamps are stored, always UTC.
const timeLayout = time.RFC3339

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateBooking persists a booking with its line items and operational
// costs in one transaction and returns the assigned id.
func (r *SQLiteRepository) CreateBooking(ctx context.Context, rec core.Record) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (created_at, total_amount, client_type, company, outstanding_invoice, total_payment)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.CreatedAt.UTC().Format(timeLayout),
		rec.TotalAmount,
		string(rec.ClientType),
		rec.Company,
		rec.OutstandingInvoice,
		rec.TotalPayment,
	)
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("booking id: %w", err)
	}

	for _, li := range rec.LineItems {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO line_items (booking_id, price, traded_amount) VALUES (?, ?, ?)`,
			id, li.Price, li.TradedAmount,
		); err != nil {
			return 0, fmt.Errorf("insert line item: %w", err)
		}
	}

	for _, ce := range rec.CostEntries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO operational_costs (booking_id, amount, category_name) VALUES (?, ?, ?)`,
			id, ce.Amount, ce.CategoryName,
		); err != nil {
			return 0, fmt.Errorf("insert operational cost: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit booking: %w", err)
	}

	slog.InfoContext(ctx, "Booking saved to SQLite",
		"id", id,
		"company", rec.Company,
		"client_type", rec.ClientType,
		"total_amount", rec.TotalAmount,
		"line_items", len(rec.LineItems),
		"cost_entries", len(rec.CostEntries))

	return id, nil
}

// ListBookings loads every booking with its line items and costs,
// newest first. Rows whose timestamp fails to parse are logged and
// skipped rather than failing the whole listing.
func (r *SQLiteRepository) ListBookings(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, total_amount, client_type, company, outstanding_invoice, total_payment
		 FROM bookings ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	index := make(map[int64]int)
	for rows.Next() {
		var (
			rec     core.Record
			created string
		)
		if err := rows.Scan(&rec.ID, &created, &rec.TotalAmount, &rec.ClientType, &rec.Company,
			&rec.OutstandingInvoice, &rec.TotalPayment); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		ts, err := time.Parse(timeLayout, created)
		if err != nil {
			slog.WarnContext(ctx, "Booking has unparseable timestamp, skipping",
				"id", rec.ID, "created_at", created, "error", err)
			continue
		}
		rec.CreatedAt = ts.UTC()
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	if err := r.loadLineItems(ctx, records, index); err != nil {
		return nil, err
	}
	if err := r.loadCostEntries(ctx, records, index); err != nil {
		return nil, err
	}
	return records, nil
}

// GetBooking retrieves a single booking by id.
func (r *SQLiteRepository) GetBooking(ctx context.Context, id int64) (*core.Record, error) {
	var (
		rec     core.Record
		created string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, total_amount, client_type, company, outstanding_invoice, total_payment
		 FROM bookings WHERE id = ?`, id).
		Scan(&rec.ID, &created, &rec.TotalAmount, &rec.ClientType, &rec.Company,
			&rec.OutstandingInvoice, &rec.TotalPayment)
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}

	ts, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("parse booking %d timestamp: %w", id, err)
	}
	rec.CreatedAt = ts.UTC()

	records := []core.Record{rec}
	index := map[int64]int{rec.ID: 0}
	if err := r.loadLineItems(ctx, records, index); err != nil {
		return nil, err
	}
	if err := r.loadCostEntries(ctx, records, index); err != nil {
		return nil, err
	}
	return &records[0], nil
}

func (r *SQLiteRepository) loadLineItems(ctx context.Context, records []core.Record, index map[int64]int) error {
	if len(records) == 0 {
		return nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT booking_id, price, traded_amount FROM line_items ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookingID int64
			li        core.LineItem
		)
		if err := rows.Scan(&bookingID, &li.Price, &li.TradedAmount); err != nil {
			return fmt.Errorf("scan line item: %w", err)
		}
		if i, ok := index[bookingID]; ok {
			records[i].LineItems = append(records[i].LineItems, li)
		}
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadCostEntries(ctx context.Context, records []core.Record, index map[int64]int) error {
	if len(records) == 0 {
		return nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT booking_id, amount, category_name FROM operational_costs ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query operational costs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookingID int64
			ce        core.CostEntry
		)
		if err := rows.Scan(&bookingID, &ce.Amount, &ce.CategoryName); err != nil {
			return fmt.Errorf("scan operational cost: %w", err)
		}
		if i, ok := index[bookingID]; ok {
			records[i].CostEntries = append(records[i].CostEntries, ce)
		}
	}
	return rows.Err()
}
