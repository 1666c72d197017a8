package namespace

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema describes the structure of a namespace file. Method names and
// mode availability are checked after decoding.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["url", "requests"],
  "properties": {
    "url": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "variables": {"$ref": "#/definitions/scalarMap"},
    "common": {"$ref": "#/definitions/template"},
    "requests": {
      "type": "object",
      "additionalProperties": {"$ref": "#/definitions/template"}
    }
  },
  "definitions": {
    "scalar": {"type": ["string", "number", "boolean", "null"]},
    "scalarMap": {
      "type": "object",
      "additionalProperties": {"$ref": "#/definitions/scalar"}
    },
    "template": {
      "type": "object",
      "properties": {
        "endpoint": {"type": "string"},
        "method": {"type": "string"},
        "mode": {"type": "string"},
        "id": {"$ref": "#/definitions/scalar"},
        "headers": {"$ref": "#/definitions/scalarMap"},
        "parameters": {"$ref": "#/definitions/scalarMap"},
        "basicAuth": {
          "type": "object",
          "required": ["username", "password"],
          "properties": {
            "username": {"type": "string"},
            "password": {"type": "string"}
          }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(Schema)

// ValidateSchema checks data against Schema and returns one message per
// violation.
func ValidateSchema(data []byte) ([]string, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return problems, nil
}

func schemaError(problems []string) error {
	return fmt.Errorf("schema validation failed: %s", strings.Join(problems, "; "))
}
