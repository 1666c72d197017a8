package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides (WEBREQ_MODE, ...).
const EnvPrefix = "WEBREQ"

// SettingsName is the settings file looked up in the working directory.
const SettingsName = "settings"

// Settings holds the runtime settings of one process invocation.
type Settings struct {
	Mode         string        `mapstructure:"mode"`
	Namespace    string        `mapstructure:"namespace"`
	LiveReload   bool          `mapstructure:"liveReload"`
	ContentOnly  bool          `mapstructure:"contentOnly"`
	RequestsDir  string        `mapstructure:"requestsDir"`
	ResponsesDir string        `mapstructure:"responsesDir"`
	Timeout      time.Duration `mapstructure:"timeout"`
	EncodeQuery  bool          `mapstructure:"encodeQuery"`
	NoColor      bool          `mapstructure:"noColor"`
	History      string        `mapstructure:"history"`
	Proxy        string        `mapstructure:"proxy"`
	Insecure     bool          `mapstructure:"insecure"`
}

// flagKeys maps command line flag names to settings keys.
var flagKeys = map[string]string{
	"mode":          "mode",
	"namespace":     "namespace",
	"live-reload":   "liveReload",
	"content-only":  "contentOnly",
	"requests-dir":  "requestsDir",
	"responses-dir": "responsesDir",
	"timeout":       "timeout",
	"encode-query":  "encodeQuery",
	"no-color":      "noColor",
	"history":       "history",
	"proxy":         "proxy",
	"insecure":      "insecure",
}

// Load reads settings from path, or from settings.json in the working
// directory when path is empty. A missing default file is not an error.
// Flags that were set explicitly take precedence over the environment,
// which takes precedence over the file.
func Load(path string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errs.WrapConfig("read settings", path, err)
		}
	} else {
		v.SetConfigName(SettingsName)
		v.SetConfigType("json")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errs.WrapConfig("read settings", SettingsName+".json", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, errs.WrapConfig("decode settings", "", err)
	}

	return s, nil
}

// Validate checks the settings needed before any namespace is loaded.
func (s *Settings) Validate() error {
	if s.Mode == "" {
		return errs.Config("validate settings", "mode", "a mode is required (set \"mode\" in settings.json, WEBREQ_MODE or --mode)")
	}
	if s.Timeout < 0 {
		return errs.Config("validate settings", "timeout", "must not be negative, got %s", s.Timeout)
	}
	if s.RequestsDir == "" {
		return errs.Config("validate settings", "requestsDir", "must not be empty")
	}
	if s.ResponsesDir == "" {
		return errs.Config("validate settings", "responsesDir", "must not be empty")
	}
	return nil
}

// HistoryEnabled reports whether dispatches are recorded.
func (s *Settings) HistoryEnabled() bool {
	return s.History != ""
}
