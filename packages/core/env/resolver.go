package env

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/webreq/packages/builtin"
	"github.com/tidwall/gjson"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver expands {{...}} placeholders. A Resolver is used by one
// dispatch at a time and is not safe for concurrent use.
type Resolver struct {
	variables map[string]string
	funcs     *builtin.Registry
	lookupEnv func(string) (string, bool)
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]string),
		funcs:     builtin.NewRegistry(),
		lookupEnv: os.LookupEnv,
	}
}

// SetWarnFunc sets a function to be called when warnings occur (e.g., unresolved variables)
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.warnFunc = fn
}

// SetLookupEnv replaces the environment lookup, os.LookupEnv by default.
func (r *Resolver) SetLookupEnv(fn func(string) (string, bool)) {
	r.lookupEnv = fn
}

func (r *Resolver) warn(format string, args ...any) {
	if r.warnFunc != nil {
		r.warnFunc(format, args...)
	}
}

// SetVariables replaces the values available to {{name}} placeholders.
func (r *Resolver) SetVariables(vars map[string]string) {
	r.variables = maps.Clone(vars)
	if r.variables == nil {
		r.variables = make(map[string]string)
	}
}

// Resolve expands every placeholder in input. Unresolvable placeholders
// are kept verbatim and reported through the warn function.
func (r *Resolver) Resolve(input string) string {
	if !strings.Contains(input, "{{") {
		return input
	}
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])

		if strings.HasPrefix(expr, "$") {
			name := expr[1:]
			if val, ok := r.lookupEnv(name); ok {
				return val
			}
			r.warn("unresolved environment variable: $%s", name)
			return match
		}

		if strings.Contains(expr, "(") {
			result, ok, err := r.funcs.Call(expr)
			if err != nil {
				r.warn("function call %s failed: %v", expr, err)
				return match
			}
			if ok {
				return fmt.Sprintf("%v", result)
			}
			r.warn("unresolved function call: %s", expr)
			return match
		}

		if val, ok := r.variables[expr]; ok {
			return val
		}

		r.warn("unresolved variable: %s", expr)
		return match
	})
}

// ResolveJSON expands placeholders inside the string values of a JSON
// document. Object keys keep their order and everything other than string
// values is copied verbatim. Documents without placeholders are returned
// unchanged.
func (r *Resolver) ResolveJSON(doc json.RawMessage) (json.RawMessage, error) {
	if len(doc) == 0 || !bytes.Contains(doc, []byte("{{")) {
		return doc, nil
	}
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("decoding body: invalid JSON")
	}

	var buf bytes.Buffer
	if err := r.writeValue(&buf, gjson.ParseBytes(doc)); err != nil {
		return nil, fmt.Errorf("encoding body: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Resolver) writeValue(buf *bytes.Buffer, v gjson.Result) error {
	var err error
	switch {
	case v.IsObject():
		buf.WriteByte('{')
		first := true
		v.ForEach(func(key, value gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err = writeString(buf, key.Str); err != nil {
				return false
			}
			buf.WriteByte(':')
			err = r.writeValue(buf, value)
			return err == nil
		})
		buf.WriteByte('}')
	case v.IsArray():
		buf.WriteByte('[')
		first := true
		v.ForEach(func(_, value gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			err = r.writeValue(buf, value)
			return err == nil
		})
		buf.WriteByte(']')
	case v.Type == gjson.String:
		err = writeString(buf, r.Resolve(v.Str))
	default:
		buf.WriteString(v.Raw)
	}
	return err
}

// writeString appends s as a JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}
