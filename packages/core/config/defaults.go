package config

import "github.com/spf13/viper"

const (
	// DefaultRequestsDir holds one JSON file per namespace
	DefaultRequestsDir = "requests"
	// DefaultResponsesDir is the root for persisted response artifacts
	DefaultResponsesDir = "responses"
)

// DefaultSettings returns settings with default values. Mode has no default.
func DefaultSettings() *Settings {
	return &Settings{
		RequestsDir:  DefaultRequestsDir,
		ResponsesDir: DefaultResponsesDir,
	}
}

func applyDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("mode", d.Mode)
	v.SetDefault("namespace", d.Namespace)
	v.SetDefault("liveReload", d.LiveReload)
	v.SetDefault("contentOnly", d.ContentOnly)
	v.SetDefault("requestsDir", d.RequestsDir)
	v.SetDefault("responsesDir", d.ResponsesDir)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("encodeQuery", d.EncodeQuery)
	v.SetDefault("noColor", d.NoColor)
	v.SetDefault("history", d.History)
	v.SetDefault("proxy", d.Proxy)
	v.SetDefault("insecure", d.Insecure)
}
