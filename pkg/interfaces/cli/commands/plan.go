package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsinha/mrpatp/pkg/application/dto"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/interfaces/cli/output"
)

func newPlanCommand(root *rootOptions) *cobra.Command {
	var (
		demandArgs []string
		fromDate   string
		maxDepth   int
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run a planning run",
		Long: `Run explosion, netting, kit check and procurement suggestions for a set of
root demands. Demands come from --demand flags, or from demands.csv when the
csv data source is used.`,
		Example: `  mrp plan --data-source csv --data-dir ./scenario --from 2025-03-01
  mrp plan --demand SATURN_V=1@2025-06-15 --max-depth 4 -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.PlanningRequest
			if cmd.Flags().Changed("max-depth") {
				if maxDepth < 0 {
					return fmt.Errorf("max depth cannot be negative, got %d", maxDepth)
				}
				req.MaxDepth = &maxDepth
			}
			for _, d := range demandArgs {
				demand, err := parseDemand(d)
				if err != nil {
					return err
				}
				req.Demands = append(req.Demands, demand)
			}
			if fromDate != "" {
				from, err := parseDate(fromDate)
				if err != nil {
					return err
				}
				req.FromDate = from
			}

			app, format, err := root.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if len(req.Demands) == 0 {
				req.Demands = app.Demands
			}
			if len(req.Demands) == 0 {
				return fmt.Errorf("no demands: pass --demand or use a csv scenario with demands.csv")
			}

			result := app.Orchestrator.RunPlanning(cmd.Context(), req)
			if err := output.WriteRun(cmd.OutOrStdout(), result, format); err != nil {
				return err
			}
			if !result.Succeeded() {
				return fmt.Errorf("planning run %s failed: %s", result.RunID, result.ErrorMessage)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&demandArgs, "demand", "d", nil, "Root demand as MATERIAL=QTY[@YYYY-MM-DD] (repeatable)")
	cmd.Flags().StringVar(&fromDate, "from", "", "Planning date YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Explosion depth, 0 plans the roots only (default: MRP_MAX_DEPTH)")
	return cmd
}

func newExplodeCommand(root *rootOptions) *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:     "explode MATERIAL QUANTITY",
		Short:   "Explode a material through its bill of materials",
		Example: `  mrp explode SATURN_V 1 --max-depth 2`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			if qty.IsNegative() {
				return fmt.Errorf("quantity cannot be negative, got %s", args[1])
			}

			app, format, err := root.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			depth := app.Config.MaxDepth
			if cmd.Flags().Changed("max-depth") {
				depth = maxDepth
			}
			nodes, err := app.Orchestrator.ExplodeBom(cmd.Context(), entities.MaterialCode(args[0]), qty, depth)
			if err != nil {
				return err
			}
			return output.WriteRequirements(cmd.OutOrStdout(), nodes, format)
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Explosion depth, 0 emits the root itself (default: MRP_MAX_DEPTH)")
	return cmd
}

// requestDate parses a date argument, defaulting to today when empty
func requestDate(s string) (time.Time, error) {
	if s == "" {
		return entities.DateOnly(time.Now().UTC()), nil
	}
	return parseDate(s)
}
