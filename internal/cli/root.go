package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

// Services holds what the commands operate on.
type Services struct {
	Kpi     kpi.KpiService
	Tokens  jwt.Service
	Migrate func(ctx context.Context) error
}

// Opener wires Services on demand. The returned func releases them.
type Opener func(ctx context.Context) (*Services, func(), error)

// NewRootCmd creates the top-level "kpictl" command.
func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "kpictl",
		Short:         "Inspect and recompute cached HR KPIs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGetCmd(open),
		newRecalcCmd(open),
		newMigrateCmd(open),
		newTokenCmd(open),
	)

	return root
}

func withServices(cmd *cobra.Command, open Opener, fn func(ctx context.Context, s *Services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	services, release, err := open(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx, services)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
