// Package dispatch turns one named template into an HTTP exchange.
//
// A dispatch takes a namespace snapshot from its Source, merges the common
// defaults into the template, expands {{...}} placeholders, builds the URL,
// sends the request, classifies the response and persists it as an
// artifact. Completed dispatches are optionally recorded in a history
// database. Nothing is retried and nothing is written when the exchange
// itself fails.
package dispatch
