package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-intel/internal/analysis"
	"github.com/sells-group/lead-intel/pkg/leadfeeder"
)

var analyzeDays int

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one lead analysis and print the report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		src := leadfeeder.NewClient(cfg.Leadfeeder.Key,
			leadfeeder.WithBaseURL(cfg.Leadfeeder.BaseURL),
			leadfeeder.WithRateLimit(cfg.Leadfeeder.RateLimit),
		)
		svc := analysis.NewService(cfg, src, analysis.NewResultStore())

		report, err := svc.Run(cmd.Context(), analyzeDays)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return eris.Wrap(err, "analyze: encode report")
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeDays, "days", 7, "trailing window in days")
	rootCmd.AddCommand(analyzeCmd)
}
