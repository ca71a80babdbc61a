package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"mediasales/internal/core"
)

// importBooking mirrors the JSON shape the HTTP API accepts, so dumps
// taken from the API can be loaded back verbatim.
type importBooking struct {
	CreatedAt          time.Time `json:"createdAt"`
	TotalAmount        float64   `json:"totalAmount"`
	ClientType         string    `json:"clientType"`
	Company            string    `json:"company"`
	OutstandingInvoice float64   `json:"outstandingInvoice"`
	TotalPayment       float64   `json:"totalPayment"`
	LineItems          []struct {
		Price        float64 `json:"price"`
		TradedAmount float64 `json:"tradedAmount"`
	} `json:"lineItems"`
	OperationalCosts []struct {
		Amount       float64 `json:"amount"`
		CategoryName string  `json:"categoryName"`
	} `json:"operationalCosts"`
}

func NewImportCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <bookings.json>",
		Short: "Bulk-load bookings from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read bookings file: %w", err)
			}

			var bookings []importBooking
			if err := json.Unmarshal(data, &bookings); err != nil {
				return fmt.Errorf("parse bookings file: %w", err)
			}
			if len(bookings) == 0 {
				cmd.Println("nothing to import")
				return nil
			}

			bar := progressbar.Default(int64(len(bookings)), "importing")

			imported, skipped := 0, 0
			for i, b := range bookings {
				rec := core.Record{
					CreatedAt:          b.CreatedAt,
					TotalAmount:        b.TotalAmount,
					ClientType:         core.ParseClientType(b.ClientType),
					Company:            b.Company,
					OutstandingInvoice: b.OutstandingInvoice,
					TotalPayment:       b.TotalPayment,
				}
				for _, li := range b.LineItems {
					rec.LineItems = append(rec.LineItems, core.LineItem{Price: li.Price, TradedAmount: li.TradedAmount})
				}
				for _, oc := range b.OperationalCosts {
					rec.CostEntries = append(rec.CostEntries, core.CostEntry{Amount: oc.Amount, CategoryName: oc.CategoryName})
				}

				if _, err := opts.repo.CreateBooking(cmd.Context(), rec); err != nil {
					cmd.PrintErrf("skipping booking %d: %v\n", i, err)
					skipped++
				} else {
					imported++
				}
				_ = bar.Add(1)
			}

			cmd.Printf("imported %d bookings, skipped %d\n", imported, skipped)
			if imported == 0 {
				return fmt.Errorf("all %d bookings failed to import", skipped)
			}
			return nil
		},
	}

	return cmd
}
