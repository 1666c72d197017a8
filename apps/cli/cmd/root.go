package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdul-hamid-achik/webreq/packages/core/config"
	"github.com/abdul-hamid-achik/webreq/packages/core/env"
	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/abdul-hamid-achik/webreq/packages/menu"
	"github.com/abdul-hamid-achik/webreq/packages/namespace"
	"github.com/abdul-hamid-achik/webreq/packages/output"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	settingsFlag string
	envFileFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "webreq",
	Short: "Pick a request, send it, keep the response.",
	Long: `webreq is an interactive HTTP request runner. Requests are defined
as JSON templates grouped into namespaces, one file per namespace in the
requests directory. Each namespace maps modes (PROD, DEV, ...) to base
URLs. Pick a request from the menu and webreq sends it against the base
URL of the active mode and stores the response under the responses
directory.

Without a subcommand webreq starts the interactive menu.`,
	Args:          usageArgs(cobra.NoArgs),
	RunE:          interactiveCommand,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and exits with the code matching the error kind.
func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var silent *exitError
		if !errors.As(err, &silent) || silent.err != nil {
			output.NewConsole(output.WithWriter(os.Stderr)).Error(err)
		}
		os.Exit(exitCode(err))
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settingsFlag, "settings", "", "Path to the settings file (default ./settings.json)")
	flags.StringVar(&envFileFlag, "env-file", env.DefaultDotEnv, "Path to a .env file exported before templates are resolved")

	flags.StringP("mode", "m", "", "Active mode, selects the base URL (env: WEBREQ_MODE)")
	flags.StringP("namespace", "n", "", "Namespace to use, skips the picker (env: WEBREQ_NAMESPACE)")
	flags.Bool("live-reload", false, "Reload the namespace file before every request (env: WEBREQ_LIVERELOAD)")
	flags.Bool("content-only", false, "Store only the response content (env: WEBREQ_CONTENTONLY)")
	flags.String("requests-dir", config.DefaultRequestsDir, "Directory with namespace files (env: WEBREQ_REQUESTSDIR)")
	flags.String("responses-dir", config.DefaultResponsesDir, "Directory for response files (env: WEBREQ_RESPONSESDIR)")
	flags.Duration("timeout", 0, "Request timeout, 0 for none (env: WEBREQ_TIMEOUT)")
	flags.Bool("encode-query", false, "URL-encode query parameters (env: WEBREQ_ENCODEQUERY)")
	flags.Bool("no-color", false, "Disable colored output (env: WEBREQ_NOCOLOR)")
	flags.String("history", "", "SQLite file recording every request, empty to disable (env: WEBREQ_HISTORY)")
	flags.String("proxy", "", "Proxy URL for HTTP requests (env: WEBREQ_PROXY)")
	flags.BoolP("insecure", "k", false, "Disable TLS certificate validation (env: WEBREQ_INSECURE)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

func interactiveCommand(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, true)
	if err != nil {
		return err
	}
	a.console.Banner()

	names, err := a.store.Discover()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return noNamespacesError(a.store.Dir())
	}

	prompter := menu.NewPrompter(cmd.InOrStdin(), a.console)

	name := a.settings.Namespace
	if name == "" {
		name, err = prompter.PickNamespace(names)
		if errors.Is(err, menu.ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
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

	var opts []menu.LoopOption
	if a.settings.LiveReload {
		watcher, err := namespace.Watch(ns.Path)
		if err != nil {
			a.console.Warn("Live reload without menu refresh: %v", err)
		} else {
			defer watcher.Close()
			opts = append(opts, menu.WithChangeNotifier(watcher))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return menu.NewLoop(prompter, a.console, d, opts...).Run(ctx)
}

func noNamespacesError(dir string) error {
	return errs.Config("discover namespaces", dir, "no valid request json files found")
}
