package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Haleralex/emicalc/internal/application/dtos"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEMI(w io.Writer, res *dtos.EMIResultDTO) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Principal:\t%s\n", res.Principal.Formatted)
	fmt.Fprintf(tw, "Duration:\t%d years (%d installments)\n", res.DurationYears, res.Installments)
	fmt.Fprintf(tw, "Interest rate:\t%s\n", res.InterestRate)
	fmt.Fprintf(tw, "Monthly EMI:\t%s\n", res.EMI.Formatted)
	fmt.Fprintf(tw, "Total payable:\t%s\n", res.TotalAmount.Formatted)
	fmt.Fprintf(tw, "Total interest:\t%s\n", res.TotalInterest.Formatted)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(res.Schedule) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Period\tOpening\tPayment\tInterest\tPrincipal\tClosing\t")
	for _, row := range res.Schedule {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			row.Period, row.OpeningBalance, row.Payment, row.Interest, row.Principal, row.ClosingBalance)
	}
	return tw.Flush()
}

func printCompound(w io.Writer, res *dtos.CompoundInterestDTO) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Principal:\t%s\n", res.Principal.Formatted)
	fmt.Fprintf(tw, "Duration:\t%d years\n", res.DurationYears)
	fmt.Fprintf(tw, "Interest rate:\t%s\n", res.InterestRate)
	fmt.Fprintf(tw, "Compounding:\t%d per year\n", res.CompoundingFrequency)
	fmt.Fprintf(tw, "Final amount:\t%s\n", res.FinalAmount.Formatted)
	fmt.Fprintf(tw, "Interest earned:\t%s\n", res.InterestEarned.Formatted)
	return tw.Flush()
}

func printValidation(w io.Writer, res *dtos.ValidationDTO) {
	if res.Valid {
		fmt.Fprintln(w, "valid")
		return
	}
	fmt.Fprintf(w, "invalid: %s [%s]: %s\n", res.Field, res.Code, res.Message)
}

func printDefaults(w io.Writer, res *dtos.EngineDefaultsDTO) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Currency:\t%s (%s)\n", res.Currency, res.CurrencySymbol)
	fmt.Fprintf(tw, "Default rate:\t%s%%\n", res.DefaultInterestRate)
	fmt.Fprintf(tw, "Max rate:\t%s%%\n", res.MaxInterestRate)
	fmt.Fprintf(tw, "Compounding:\t%d per year\n", res.CompoundingFrequency)
	fmt.Fprintf(tw, "Duration:\t%d..%d years\n", res.MinDurationYears, res.MaxDurationYears)
	fmt.Fprintf(tw, "Principal:\t%s..%s\n", res.MinPrincipal, res.MaxPrincipal)
	fmt.Fprintf(tw, "Precision:\t%d significant digits, %d currency places\n", res.CalculationPrecision, res.CurrencyScale)
	return tw.Flush()
}
