package cmd

import (
	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [namespace...]",
	Short: "Validate namespace files without sending anything",
	Long: `Validate namespace files against the namespace schema and check that
every request uses GET, POST or PUT. With a mode set only that mode's base
URL is required; otherwise every mode the file defines is checked.

Without arguments every namespace in the requests directory is validated.

Examples:
  webreq validate
  webreq validate shop billing --mode PROD`,
	RunE:              validateCommand,
	ValidArgsFunction: completeNamespaces,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, false)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names, err = a.store.Discover()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return noNamespacesError(a.store.Dir())
		}
	}

	invalid := 0
	for _, name := range names {
		err := a.store.Validate(name, a.settings.Mode)
		a.console.Validation(name, err)
		if err != nil {
			invalid++
		}
	}

	if invalid > 0 {
		return errs.Config("validate", "", "%d of %d namespace files are invalid", invalid, len(names))
	}
	return nil
}
