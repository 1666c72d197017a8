// Package artifact persists dispatched responses to disk.
//
// Each response becomes one file under {root}/{namespace}, named after the
// request and the second it was written:
//
//	responses/shop/getItem_2024-05-01_13-04-05.json
//
// PDF bodies are written verbatim with a .pdf extension. Everything else is
// decoded as JSON and written either wrapped in an Envelope or, in
// content-only mode, as the bare content. Bodies that are not JSON are kept
// as a JSON string and reported through Saved.DecodeErr.
package artifact
