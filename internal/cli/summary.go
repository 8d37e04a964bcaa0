package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hydronet/pkg/hydro"
)

// summaryCommand creates the summary command.
func (c *CLI) summaryCommand() *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "summary <input>",
		Short: "Print tier counts, totals and integrity warnings",
		Long: `Assemble the network from a JSON record file or SQLite database and
print how many entities each tier holds, the stream length and catchment
area draining to each lake, and the number of structures of each kind.`,
		Example: `  hydronet summary basin.json
  hydronet summary basin.db --refresh`,
		Args: exactInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.network(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			printSummary(result.Network, result.CacheHit)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func printSummary(n *hydro.Network, cached bool) {
	s := n.Stats()
	printNewline()
	printTitle("Network")
	printStatLine([]string{
		pluralize(s.Lakes, "lake", "lakes"),
		pluralize(s.Tributaries, "tributary", "tributaries"),
		pluralize(s.Catchments, "catchment", "catchments"),
		pluralize(s.Reaches, "reach", "reaches"),
		pluralize(s.Structures, "structure", "structures"),
	}, cached)

	kinds := map[hydro.Kind]int{}
	for _, st := range n.Structures() {
		kinds[st.Kind()]++
	}
	printKeyValue("barriers", fmt.Sprint(kinds[hydro.KindBarrier]))
	printKeyValue("dams", fmt.Sprint(kinds[hydro.KindDam]))
	printKeyValue("crossings", fmt.Sprint(kinds[hydro.KindCrossing]))

	for _, l := range n.Lakes() {
		printNewline()
		printTitle("Lake " + l.ID())
		printKeyValue("tributaries", fmt.Sprint(len(l.Tributaries())))
		printKeyValue("length", StyleNumber.Render(formatQuantity(l.LengthAll())))
		printKeyValue("area", StyleNumber.Render(formatQuantity(l.AreaAll())))
	}

	if ws := n.Warnings(); len(ws) > 0 {
		printNewline()
		for _, w := range ws {
			printWarning("%s", w)
		}
	}
}
