package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mediasales/internal/core"
	"mediasales/internal/report"
	"mediasales/internal/services"
)

type reportFlags struct {
	view          string
	startDateRaw  string
	endDateRaw    string
	halfYearScope string
	asJSON        bool
}

func NewReportCmd(opts *RootOptions) *cobra.Command {
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the sales rollup for a view",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := buildParams(flags)
			if err != nil {
				return err
			}

			svc := services.NewReportService(opts.repo)
			rows, err := svc.SalesRollup(cmd.Context(), params)
			if err != nil {
				return err
			}

			if flags.asJSON {
				return printRollupJSON(cmd, rows)
			}
			printRollup(cmd, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.view, "view", string(core.Yearly), "View: yearly|halfYearly|quarterly|monthly|weekly|customDate")
	cmd.Flags().StringVar(&flags.startDateRaw, "start-date", "", "Custom range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.endDateRaw, "end-date", "", "Custom range end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.halfYearScope, "half-year-scope", string(report.HalfYearScopeCurrent), "Half-yearly filter: current|record")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Emit the rollup as a JSON array")

	return cmd
}

func buildParams(flags *reportFlags) (report.Params, error) {
	gran, err := core.ParseGranularity(flags.view)
	if err != nil {
		return report.Params{}, err
	}

	scope := report.HalfYearScope(flags.halfYearScope)
	switch scope {
	case report.HalfYearScopeCurrent, report.HalfYearScopeRecord:
	default:
		return report.Params{}, errors.New("half-year-scope must be current or record")
	}

	params := report.Params{
		Granularity:   gran,
		Today:         time.Now().UTC(),
		HalfYearScope: scope,
	}

	if gran == core.CustomRange {
		if flags.startDateRaw == "" || flags.endDateRaw == "" {
			return report.Params{}, errors.New("customDate view requires --start-date and --end-date")
		}
		start, err := time.ParseInLocation("2006-01-02", flags.startDateRaw, time.UTC)
		if err != nil {
			return report.Params{}, fmt.Errorf("invalid --start-date: %w", err)
		}
		end, err := time.ParseInLocation("2006-01-02", flags.endDateRaw, time.UTC)
		if err != nil {
			return report.Params{}, fmt.Errorf("invalid --end-date: %w", err)
		}
		if end.Before(start) {
			return report.Params{}, errors.New("--end-date is before --start-date")
		}
		params.Range = &core.DateRange{Start: start, End: end}
	}

	return params, nil
}

func printRollupJSON(cmd *cobra.Command, rows []report.RollupRow) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if rows == nil {
		rows = []report.RollupRow{}
	}
	return enc.Encode(rows)
}

func printRollup(cmd *cobra.Command, rows []report.RollupRow) {
	if len(rows) == 0 {
		cmd.Println("no bookings in the selected window")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tCLIENT\tOWNED\tTRADED\tELEC\tLICENSE\tRENTAL\tMISC\tPURCHASE\tMARGIN\tGR.OWNED\tGR.TRADED\tTOTAL")
	for _, r := range rows {
		if r.Kind == report.SubtotalRow {
			fmt.Fprintln(w, strings.Repeat("-\t", 12)+"-")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Period, r.ClientType,
			r.OwnedSiteRevenue, r.TradedSiteRevenue,
			r.OperationalCosts.Electricity, r.OperationalCosts.LicenseFee,
			r.OperationalCosts.Rental, r.OperationalCosts.Misc,
			r.TradedPurchaseCost, r.TradedMargin,
			r.GrossRevenueOwned, r.GrossRevenueTraded,
			r.TotalRevenue)
	}
	w.Flush()
}
