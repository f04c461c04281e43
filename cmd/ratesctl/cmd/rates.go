package cmd

import (
	"encoding/json"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"rates-api-go/internal/hierarchy"
	"rates-api-go/internal/rates"
	"rates-api-go/internal/store"
	"rates-api-go/pkg/model"
)

var (
	ratesFrom        string
	ratesTo          string
	ratesOrigin      string
	ratesDestination string
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Print daily average prices between two locations as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := civil.ParseDate(ratesFrom)
		if err != nil {
			return err
		}
		to, err := civil.ParseDate(ratesTo)
		if err != nil {
			return err
		}

		e, err := loadEnv(true)
		if err != nil {
			return err
		}
		defer e.Close()

		pg := store.NewPostgres(e.db)
		svc := rates.NewService(pg, hierarchy.NewCache(pg, e.log), rates.Config{
			MinSamples:  e.cfg.MinPricesPerDay,
			MaxSpanDays: e.cfg.MaxDaysInterval,
		}, e.log)

		result, err := svc.GetAverageRates(cmd.Context(), model.RatesQuery{
			DateFrom:    from,
			DateTo:      to,
			Origin:      ratesOrigin,
			Destination: ratesDestination,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	ratesCmd.Flags().StringVar(&ratesFrom, "from", "", "first day, YYYY-MM-DD")
	ratesCmd.Flags().StringVar(&ratesTo, "to", "", "last day, YYYY-MM-DD")
	ratesCmd.Flags().StringVar(&ratesOrigin, "origin", "", "origin port code or region slug")
	ratesCmd.Flags().StringVar(&ratesDestination, "destination", "", "destination port code or region slug")

	for _, name := range []string{"from", "to", "origin", "destination"} {
		_ = ratesCmd.MarkFlagRequired(name)
	}
}
