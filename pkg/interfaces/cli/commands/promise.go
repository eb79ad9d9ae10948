package commands

import (
	"github.com/spf13/cobra"

	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/interfaces/cli/output"
)

func newATPCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "atp MATERIAL PLANT QUANTITY [DATE]",
		Short:   "Check available-to-promise for a material at a plant",
		Example: `  mrp atp F1_TURBOPUMP MICHOUD 3 2025-03-01`,
		Args:    cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parsePositiveQuantity(args[2])
			if err != nil {
				return err
			}
			var dateArg string
			if len(args) == 4 {
				dateArg = args[3]
			}
			date, err := requestDate(dateArg)
			if err != nil {
				return err
			}

			app, format, err := root.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Orchestrator.ComputeATP(cmd.Context(), entities.ATPRequest{
				Material:      entities.MaterialCode(args[0]),
				Plant:         args[1],
				RequestedQty:  qty,
				RequestedDate: date,
			})
			if err != nil {
				return err
			}
			return output.WriteATP(cmd.OutOrStdout(), result, format)
		},
	}
}

func newCTPCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "ctp MATERIAL PLANT WORKSTATION QUANTITY [DATE]",
		Short:   "Check capable-to-promise: material availability plus workstation capacity",
		Example: `  mrp ctp F1_TURBOPUMP MICHOUD ASSEMBLY_BAY 2 2025-03-31`,
		Args:    cobra.RangeArgs(4, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parsePositiveQuantity(args[3])
			if err != nil {
				return err
			}
			var dateArg string
			if len(args) == 5 {
				dateArg = args[4]
			}
			date, err := requestDate(dateArg)
			if err != nil {
				return err
			}

			app, format, err := root.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Orchestrator.ComputeCTP(cmd.Context(), entities.CTPRequest{
				Material:      entities.MaterialCode(args[0]),
				Plant:         args[1],
				Workstation:   args[2],
				RequestedQty:  qty,
				RequestedDate: date,
			})
			if err != nil {
				return err
			}
			return output.WriteCTP(cmd.OutOrStdout(), result, format)
		},
	}
}
