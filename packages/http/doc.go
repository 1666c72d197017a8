// Package http sends the requests built from namespace templates.
//
// It wraps the standard library's http package with:
//   - A closed Method type for the supported verbs (GET, POST, PUT)
//   - Configurable timeout, proxy and TLS verification
//   - HTTP Basic authentication
//   - Elapsed time measured around send and full body read
//   - Transport failures reported as errs.TransportError
package http
