package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sitehealth/imagecheck/internal/config"
	"github.com/sitehealth/imagecheck/internal/storage"
	"github.com/sitehealth/imagecheck/internal/util"
)

// NewHistoryCmd creates the history subcommand, which lists recent
// audit runs from the local scan history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "List recent audit runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistory,
	}

	cmd.Flags().Int("limit", 10, "Maximum number of runs to list")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	setupLogging(cfg)

	domain := ""
	if len(args) == 1 {
		domain = util.NormaliseDomain(args[0])
	}
	limit, _ := cmd.Flags().GetInt("limit")

	history, err := storage.Open(cfg.HistoryDir)
	if err != nil {
		return err
	}
	defer history.Close()

	runs, err := history.RecentRuns(cmd.Context(), domain, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tDOMAIN\tPAGES\tBROKEN\tREVIEW\tPAGE ERRORS\tREPORT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Domain,
			run.PagesScanned,
			run.Broken,
			run.ProbablyOK,
			run.PageErrors,
			run.ReportPath,
		)
	}
	return w.Flush()
}
