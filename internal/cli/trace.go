package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hydronet/pkg/hydro"
	"github.com/matzehuels/hydronet/pkg/ordered"
)

// traceCommand creates the trace command.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		flags inputFlags
		req   = traceRequest{Tier: tierReach, Direction: directionUp, Scope: scopeNone}
	)

	cmd := &cobra.Command{
		Use:   "trace <input>",
		Short: "List entities upstream or downstream of an entity",
		Long: `Trace from a structure, reach or catchment. Downstream traces follow the
single downstream link to the outlet. Upstream traces walk the tributary's
reverse index breadth-first, nearest entities first.

--levels bounds the number of steps (0 means unlimited). --scope stops the
walk at the boundary of the start entity's reach, catchment or tributary.`,
		Example: `  hydronet trace basin.json --tier reach --id 1042 --direction down
  hydronet trace basin.json --tier structure --id 77 --levels 2
  hydronet trace basin.json --tier reach --id 1042 --scope catchment`,
		Args: exactInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.network(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			found, err := trace(cmd.Context(), result.Network, req)
			if err != nil {
				return err
			}

			printNewline()
			printTitle(fmt.Sprintf("%s %s, %s", req.Tier, req.ID, req.Direction))
			if len(found) == 0 {
				printInfo("nothing %sstream", req.Direction)
				return nil
			}
			for _, id := range ordered.IDs(found) {
				printItem(id)
			}
			printDetail("%d found", len(found))
			if req.Tier == tierStructure {
				printStructureTotals(ordered.OfType[hydro.Structure](found))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&req.Tier, "tier", req.Tier, "tier of the start entity: structure, reach or catchment")
	cmd.Flags().StringVar(&req.ID, "id", "", "id of the start entity")
	cmd.Flags().StringVar(&req.Direction, "direction", req.Direction, "up or down")
	cmd.Flags().IntVar(&req.Levels, "levels", ordered.Unlimited, "maximum steps (0 = unlimited)")
	cmd.Flags().StringVar(&req.Scope, "scope", req.Scope, "none, reach, catchment or tributary")
	_ = cmd.MarkFlagRequired("id")
	completeValues(cmd, "tier", tierStructure, tierReach, tierCatchment)
	completeValues(cmd, "direction", directionUp, directionDown)
	completeValues(cmd, "scope", scopeNone, scopeReach, scopeCatchment, scopeTributary)
	return cmd
}

// printStructureTotals prints the summed cost and upstream habitat of the
// traced structures. Structures without a value are skipped.
func printStructureTotals(structures []hydro.Structure) {
	cost, _ := hydro.TotalCost(structures, false)
	habitat, _ := hydro.TotalHabitat(structures, false)
	printNewline()
	printKeyValue("total cost", StyleNumber.Render(formatQuantity(cost)))
	printKeyValue("habitat up", StyleNumber.Render(formatQuantity(habitat)))
}
