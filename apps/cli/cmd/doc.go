// Package cmd implements the webreq CLI commands using Cobra.
//
// Available commands:
//   - (none): Interactive namespace picker and request menu
//   - send: Send one request and store the response
//   - list: List namespaces or the requests of a namespace
//   - show: Print a request with its common defaults as YAML
//   - validate: Check namespace files without sending anything
//   - history: Show recently sent requests
//   - import: Convert a curl command into a request
//   - init: Create settings.json and an example namespace
//   - version: Show webreq version information
//
// Settings come from settings.json, WEBREQ_* environment variables and
// flags, in increasing order of precedence.
package cmd
