package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modgraph/pkg/depgraph"
	modio "github.com/matzehuels/modgraph/pkg/io"
)

// cyclesCommand creates the cycles command for listing circular dependencies.
func (c *CLI) cyclesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cycles <input>",
		Short: "List circular dependencies",
		Long: `List the circular dependency chains of a module graph.

The output of --json can be used as the "circular" list of a render input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCycles(cmd.OutOrStdout(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the cycles as a JSON array of chains")

	return cmd
}

func (c *CLI) runCycles(w io.Writer, input string, asJSON bool) error {
	in, err := modio.ImportInput(input)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	cycles := depgraph.FindCycles(in.Modules)
	prog.done("Searched " + input)

	if asJSON {
		return modio.WriteCycles(w, cycles)
	}

	if len(cycles) == 0 {
		printSuccess(w, "No circular dependencies")
		printDetail(w, "%d modules checked", in.Modules.Len())
		return nil
	}

	printWarning(w, "Found %d circular dependencies", len(cycles))
	for i, cycle := range cycles {
		printCycle(w, i+1, cycle)
	}
	return nil
}
