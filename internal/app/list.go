package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/portscope/internal/categorize"
	"github.com/blackwell-systems/portscope/internal/output"
	"github.com/blackwell-systems/portscope/internal/pipeline"
	"github.com/blackwell-systems/portscope/internal/port"
)

var (
	listAll      bool
	listJSON     bool
	listCategory string
	listTier     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List listening TCP ports with process and safety details",
	Long: `Scans the system's listening TCP sockets and prints one row per port
with the owning process, safety tier, category, technology and uptime.

System processes are hidden unless --all is given.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include system processes")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "emit machine-readable JSON")
	listCmd.Flags().StringVar(&listCategory, "category", "", "only show ports in this category (e.g. development, database)")
	listCmd.Flags().StringVar(&listTier, "tier", "", "only show ports in this safety tier (critical, important, optional, user-created)")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", err)
	}
	if listAll {
		cfg.ShowSystemProcesses = true
	}

	tracker, closeDB, err := openTracker(cfg.HistoryEnabled)
	if err != nil {
		return err
	}
	defer closeDB()

	var spin *output.Spinner
	if !listJSON {
		spin = output.NewSpinner("Scanning listening ports")
		spin.Start()
	}
	result, err := pipeline.New(tracker).Refresh(context.Background(), cfg)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	if !result.Succeeded {
		return fmt.Errorf("scan failed: %s", result.Err)
	}

	results := categorizeAll(result.Records)
	results = filterResults(results, listCategory, listTier)

	if listJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderPortTable(results, output.IsColorEnabled()))
	return nil
}

func categorizeAll(records []port.Record) []categorize.Result {
	out := make([]categorize.Result, 0, len(records))
	for _, r := range records {
		out = append(out, categorize.Categorize(r))
	}
	return out
}

// filterResults narrows results by category and/or tier. Empty filters
// match everything; matching is case-insensitive.
func filterResults(results []categorize.Result, category, tier string) []categorize.Result {
	if category == "" && tier == "" {
		return results
	}
	out := make([]categorize.Result, 0, len(results))
	for _, res := range results {
		if category != "" && !strings.EqualFold(string(res.Category), category) {
			continue
		}
		if tier != "" && !strings.EqualFold(string(res.Record.Safety), tier) {
			continue
		}
		out = append(out, res)
	}
	return out
}
