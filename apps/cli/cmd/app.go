package cmd

import (
	"github.com/abdul-hamid-achik/webreq/packages/artifact"
	"github.com/abdul-hamid-achik/webreq/packages/core/config"
	"github.com/abdul-hamid-achik/webreq/packages/core/dispatch"
	"github.com/abdul-hamid-achik/webreq/packages/core/env"
	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/abdul-hamid-achik/webreq/packages/history"
	"github.com/abdul-hamid-achik/webreq/packages/http"
	"github.com/abdul-hamid-achik/webreq/packages/namespace"
	"github.com/abdul-hamid-achik/webreq/packages/output"
	"github.com/spf13/cobra"
)

// app bundles what every command needs: settings, console and store.
type app struct {
	settings *config.Settings
	console  *output.Console
	store    *namespace.Store
}

// loadApp exports the .env file, loads settings and validates them. Mode
// is only required by commands that resolve a namespace.
func loadApp(cmd *cobra.Command, requireMode bool) (*app, error) {
	if err := env.LoadAndExportDotEnv(envFileFlag, !cmd.Flags().Changed("env-file")); err != nil {
		return nil, errs.WrapConfig("load env file", envFileFlag, err)
	}

	settings, err := config.Load(settingsFlag, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if requireMode {
		if err := settings.Validate(); err != nil {
			return nil, err
		}
	}

	return &app{
		settings: settings,
		console:  output.NewConsole(output.WithWriter(cmd.OutOrStdout()), output.WithNoColor(settings.NoColor)),
		store:    namespace.NewStore(settings.RequestsDir),
	}, nil
}

// namespaceName returns the namespace named on the command line or in the
// settings.
func (a *app) namespaceName(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if a.settings.Namespace != "" {
		return a.settings.Namespace, nil
	}
	return "", &usageError{err: errs.Config("select namespace", "", "no namespace given (set \"namespace\" in settings.json, WEBREQ_NAMESPACE or --namespace)")}
}

func (a *app) newClient() (*http.Client, error) {
	opts := []http.ClientOption{
		http.WithValidateSSL(!a.settings.Insecure),
		http.WithDefaultHeaders(map[string]string{"User-Agent": userAgent()}),
	}
	if a.settings.Timeout > 0 {
		opts = append(opts, http.WithTimeout(a.settings.Timeout))
	}
	if a.settings.Proxy != "" {
		opts = append(opts, http.WithProxy(a.settings.Proxy))
	}
	return http.NewClient(opts...)
}

// newDispatcher wires the dispatcher for ns. The returned func closes the
// history database, if one was opened.
func (a *app) newDispatcher(ns *namespace.Namespace) (*dispatch.Dispatcher, func(), error) {
	client, err := a.newClient()
	if err != nil {
		return nil, nil, err
	}

	writer := artifact.NewWriter(a.settings.ResponsesDir, artifact.WithContentOnly(a.settings.ContentOnly))

	opts := []dispatch.Option{
		dispatch.WithEncodeQuery(a.settings.EncodeQuery),
		dispatch.WithWarnFunc(a.console.Warn),
	}

	closeFn := func() {}
	if a.settings.HistoryEnabled() {
		db, err := history.Open(a.settings.History)
		if err != nil {
			return nil, nil, errs.WrapConfig("open history", a.settings.History, err)
		}
		opts = append(opts, dispatch.WithRecorder(db))
		closeFn = func() { _ = db.Close() }
	}

	source := namespace.NewSource(a.store, ns, a.settings.LiveReload)
	return dispatch.New(source, client, writer, opts...), closeFn, nil
}

// userAgent identifies webreq to servers; templates may override it with
// their own User-Agent header.
func userAgent() string {
	return "webreq/" + version
}
