// Package config handles runtime settings for webreq.
//
// Settings are read from settings.json (or an explicit path), then
// overridden by WEBREQ_* environment variables and command line flags.
package config
