// Package output renders operator facing text.
//
// Console writes the interactive screens: the banner, the namespace picker,
// the request menu, dispatch progress and results, warnings and errors.
// JSONFormatter writes dispatch results and history entries as JSON for
// scripted use of the non-interactive commands.
package output
