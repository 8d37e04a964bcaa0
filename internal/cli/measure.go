package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hydronet/pkg/ordered"
)

// measureCommand creates the measure command.
func (c *CLI) measureCommand() *cobra.Command {
	var (
		flags inputFlags
		req   = measureRequest{Tier: tierTributary, Quantity: quantityLength, Direction: directionAll}
	)

	cmd := &cobra.Command{
		Use:   "measure <input>",
		Short: "Sum stream length or catchment area",
		Long: `Sum reach lengths or catchment areas over a catchment, tributary or lake.

With --direction all the whole entity is summed. With up or down the sum
covers the entities upstream or downstream of --from inside the entity,
not --from itself; --from is a reach for length and a catchment for area. Lakes only
support all; catchments only aggregate length.`,
		Example: `  hydronet measure basin.json --tier lake --id Superior --quantity area
  hydronet measure basin.json --tier tributary --id 7 --direction up --from 1042
  hydronet measure basin.json --tier catchment --id 100 --direction down --from 1042 --levels 3`,
		Args: exactInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.network(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			v, err := measure(cmd.Context(), result.Network, req)
			if err != nil {
				return err
			}

			label := req.Quantity
			if req.Direction != directionAll {
				label = fmt.Sprintf("%s %s from %s", req.Quantity, req.Direction, req.From)
			}
			printNewline()
			printTitle(fmt.Sprintf("%s %s", req.Tier, req.ID))
			printKeyValue(label, StyleNumber.Render(formatQuantity(v)))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&req.Tier, "tier", req.Tier, "catchment, tributary or lake")
	cmd.Flags().StringVar(&req.ID, "id", "", "id of the entity to measure")
	cmd.Flags().StringVar(&req.Quantity, "quantity", req.Quantity, "length or area")
	cmd.Flags().StringVar(&req.Direction, "direction", req.Direction, "all, up or down")
	cmd.Flags().StringVar(&req.From, "from", "", "reach (length) or catchment (area) to measure from")
	cmd.Flags().IntVar(&req.Levels, "levels", ordered.Unlimited, "maximum steps (0 = unlimited)")
	_ = cmd.MarkFlagRequired("id")
	completeValues(cmd, "tier", tierCatchment, tierTributary, tierLake)
	completeValues(cmd, "quantity", quantityLength, quantityArea)
	completeValues(cmd, "direction", directionAll, directionUp, directionDown)
	return cmd
}
