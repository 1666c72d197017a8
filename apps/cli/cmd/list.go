package cmd

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [namespace]",
	Short: "List namespaces or the requests of one namespace",
	Long: `Without a namespace, list the namespace files in the requests directory
in menu order. With a namespace (argument, --namespace or settings), list
its requests for the active mode together with their URLs.

Examples:
  webreq list
  webreq list shop --mode DEV`,
	Args:              usageArgs(cobra.MaximumNArgs(1)),
	RunE:              listCommand,
	ValidArgsFunction: completeNamespaces,
}

func listCommand(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, false)
	if err != nil {
		return err
	}

	name, err := a.namespaceName(args)
	if err != nil {
		names, err := a.store.Discover()
		if err != nil {
			return err
		}
		a.console.Namespaces(a.store.Dir(), names)
		return nil
	}

	if err := a.settings.Validate(); err != nil {
		return err
	}
	ns, err := a.store.Load(name, a.settings.Mode)
	if err != nil {
		return err
	}
	a.console.Templates(ns)
	return nil
}
