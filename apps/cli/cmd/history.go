package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/abdul-hamid-achik/webreq/packages/history"
	"github.com/abdul-hamid-achik/webreq/packages/output"
	"github.com/spf13/cobra"
)

var (
	historyLimitFlag  int
	historyOutputFlag string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently sent requests",
	Long: `Show the most recent requests recorded in the history database.

History is recorded only when the "history" setting (or --history) names a
SQLite file.

Examples:
  webreq history --history .webreq/history.db
  webreq history -l 50 -o json`,
	Args: usageArgs(cobra.NoArgs),
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "l", 20, "Maximum number of entries, 0 for all")
	historyCmd.Flags().StringVarP(&historyOutputFlag, "output", "o", "console", "Output format: console, json")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	if historyOutputFlag != "console" && historyOutputFlag != "json" {
		return &usageError{err: fmt.Errorf("unknown output format %q (expected console or json)", historyOutputFlag)}
	}

	a, err := loadApp(cmd, false)
	if err != nil {
		return err
	}
	if !a.settings.HistoryEnabled() {
		return errs.Config("read history", "", "history is disabled (set \"history\" in settings.json, WEBREQ_HISTORY or --history)")
	}

	db, err := history.Open(a.settings.History)
	if err != nil {
		return errs.WrapConfig("open history", a.settings.History, err)
	}
	defer db.Close()

	entries, err := db.Recent(cmd.Context(), historyLimitFlag)
	if err != nil {
		return err
	}

	if historyOutputFlag == "json" {
		return output.NewJSONFormatter(output.JSONWithWriter(cmd.OutOrStdout())).FormatHistory(entries)
	}
	a.console.History(entries)
	return nil
}
