package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/abdul-hamid-achik/webreq/packages/import/curl"
	"github.com/spf13/cobra"
)

var (
	importNameFlag  string
	importWriteFlag bool
)

var importCmd = &cobra.Command{
	Use:   "import <format> <source>",
	Short: "Import requests from other tools",
	Long: `Convert requests from other tools into namespace request templates.

Supported formats:
  curl - a curl command line`,
}

var importCurlCmd = &cobra.Command{
	Use:   "curl <command>",
	Short: "Import a curl command as a request",
	Long: `Convert a curl command into a request of the selected namespace. The URL
must start with the namespace's base URL for the active mode; the rest of the
path becomes the endpoint and the query string becomes the parameters.

Without --write the request is printed as a JSON member ready to paste into
the "requests" object. With --write it is appended to the namespace file.
Pass "-" to read the command from stdin.

Examples:
  webreq import curl "curl -X POST http://localhost:8080/items -d '{\"n\":1}'" -n shop -m DEV
  pbpaste | webreq import curl - --name createItem --write`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: importCurlCommand,
}

func init() {
	importCurlCmd.Flags().StringVar(&importNameFlag, "name", "", "Request name (default derived from method and endpoint)")
	importCurlCmd.Flags().BoolVarP(&importWriteFlag, "write", "w", false, "Append the request to the namespace file")

	importCmd.AddCommand(importCurlCmd)
}

func importCurlCommand(cmd *cobra.Command, args []string) error {
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

	source := args[0]
	if source == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		source = string(data)
	}

	parsed, err := curl.Parse(source)
	if err != nil {
		return &usageError{err: err}
	}
	tmpl, err := parsed.Template(importNameFlag, ns.BaseURL)
	if err != nil {
		return errs.WrapConfig("import curl", name, err)
	}
	if parsed.Insecure {
		a.console.Warn("curl used --insecure; pass --insecure or set \"insecure\" in settings.json when sending")
	}

	if importWriteFlag {
		if err := a.store.Add(name, a.settings.Mode, tmpl); err != nil {
			return err
		}
		a.console.Added(tmpl, a.store.Path(name))
		return nil
	}

	key, err := json.Marshal(tmpl.Name)
	if err != nil {
		return err
	}
	entry, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, entry)
	return nil
}
