package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/webreq/packages/output"
	"github.com/spf13/cobra"
)

var sendOutputFlag string

var sendCmd = &cobra.Command{
	Use:   "send <request>",
	Short: "Send one request without the menu",
	Long: `Send a single request of the selected namespace and store the response.

The exit code is 1 when the response status is outside the 2xx range, 3 for
settings or namespace errors and 4 when the request could not be sent.

Examples:
  webreq send getItem --namespace shop --mode DEV
  webreq send listItems -n shop -o json`,
	Args:              usageArgs(cobra.ExactArgs(1)),
	RunE:              sendCommand,
	ValidArgsFunction: completeRequests,
}

func init() {
	sendCmd.Flags().StringVarP(&sendOutputFlag, "output", "o", "console", "Output format: console, json")
}

func sendCommand(cmd *cobra.Command, args []string) error {
	if sendOutputFlag != "console" && sendOutputFlag != "json" {
		return &usageError{err: fmt.Errorf("unknown output format %q (expected console or json)", sendOutputFlag)}
	}

	a, err := loadApp(cmd, true)
	if err != nil {
		return err
	}
	name, err := a.namespaceName(nil)
	if err != nil {
		return err
	}
	ns, err := a.store.Load(name, a.settings.Mode)
	if err != nil {
		return err
	}

	d, closeFn, err := a.newDispatcher(ns)
	if err != nil {
		return err
	}
	defer closeFn()

	prepared, err := d.Prepare(args[0])
	if err != nil {
		return err
	}
	if sendOutputFlag == "console" {
		a.console.Sending(args[0], prepared.Request)
	}

	result, err := d.Send(cmd.Context(), prepared)
	if err != nil {
		return err
	}

	if sendOutputFlag == "json" {
		if err := output.NewJSONFormatter(output.JSONWithWriter(cmd.OutOrStdout())).FormatResult(result); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	} else {
		a.console.Result(result)
	}

	if !result.OK {
		return &exitError{code: ExitRequestFailure}
	}
	return nil
}
