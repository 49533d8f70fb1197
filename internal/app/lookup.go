package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/portscope/internal/categorize"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <port>",
	Short: "Describe what a port number is conventionally used for",
	Long: `Looks up a port in the built-in knowledge base of well-known and
common development ports. This does not scan the system; it answers
"what usually runs here", not "what is running here".`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	p, err := parsePortArg(args[0])
	if err != nil {
		return err
	}

	info, ok := categorize.Lookup(p)
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Port %d is not in the knowledge base.\n", p)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Port %d: %s\n", info.Port, info.Description)
	fmt.Fprintf(cmd.OutOrStdout(), "  Category:   %s\n", info.Category)
	if info.Technology != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  Technology: %s\n", info.Technology)
	}
	return nil
}
