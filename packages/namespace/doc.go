// Package namespace loads request templates from namespace files.
//
// A namespace is one JSON file in the requests directory holding base URLs
// per mode, named request templates and optional common defaults:
//
//	{
//	  "url": {"DEV": "http://localhost:8080"},
//	  "variables": {"version": "v2"},
//	  "common": {"headers": {"Accept": "application/json"}},
//	  "requests": {
//	    "getItem": {"endpoint": "items", "method": "GET", "id": 42}
//	  }
//	}
//
// Loading validates the file against an embedded JSON schema, rejects
// unsupported methods and drops templates restricted to another mode.
// A loaded Namespace is an immutable snapshot; Sources hand out snapshots
// either once (StaticSource) or freshly read before every use (LiveSource).
//
// Variables are literal values for {{name}} placeholders in the templates.
//
// Store.Add appends a template to a file without reordering the existing
// requests.
package namespace
