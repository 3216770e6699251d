package cli

import (
	"context"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/spf13/cobra"
)

func newGetCmd(open Opener) *cobra.Command {
	var req kpi.KpiRequest

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print a KPI payload, computing it on a cache miss",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, s *Services) error {
				resp, err := s.Kpi.Get(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}

	cmd.Flags().StringVar(&req.Kind, "kind", "", "KPI kind: dashboard, payroll or timeAccount")
	cmd.Flags().IntVar(&req.Year, "year", 0, "Calendar year")
	cmd.Flags().IntVar(&req.Month, "month", 0, "Calendar month (1-12)")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func newRecalcCmd(open Opener) *cobra.Command {
	var req kpi.RecalcRequest

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recompute KPIs for a month and overwrite the cache",
		Long:  "Recompute KPIs for a month. Without --kind every kind is recomputed in order: dashboard, payroll, timeAccount.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, s *Services) error {
				resp, err := s.Kpi.Recalculate(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}

	cmd.Flags().StringVar(&req.Kind, "kind", "", "KPI kind; empty recomputes all kinds")
	cmd.Flags().IntVar(&req.Year, "year", 0, "Calendar year")
	cmd.Flags().IntVar(&req.Month, "month", 0, "Calendar month (1-12)")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func newMigrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the kpi_cache table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, s *Services) error {
				if err := s.Migrate(ctx); err != nil {
					return err
				}
				cmd.Println("kpi_cache is up to date")
				return nil
			})
		},
	}
}
