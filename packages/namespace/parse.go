package namespace

import (
	"encoding/json"
	"fmt"

	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/tidwall/gjson"
)

const opLoad = "load namespace"

// Parse decodes a namespace file for the given mode. Every template in the
// file is decoded and checked, including ones hidden by their mode, so a
// broken file fails regardless of the active mode.
func Parse(name, mode string, data []byte) (*Namespace, error) {
	if err := checkDocument(name, data); err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(data)

	baseURL, ok := lookupKey(root.Get("url"), mode)
	if !ok {
		return nil, errs.Config(opLoad, name, "missing url for mode %q", mode)
	}

	ns := &Namespace{
		Name:    name,
		Mode:    mode,
		BaseURL: baseURL.Str,
	}

	if vars := root.Get("variables"); vars.Exists() && vars.Type != gjson.Null {
		if err := json.Unmarshal([]byte(vars.Raw), &ns.Variables); err != nil {
			return nil, errs.Config(opLoad, name, "variables: %v", err)
		}
	}

	if common := root.Get("common"); common.Exists() && common.Type != gjson.Null {
		ns.Common = &Template{Name: "common"}
		if err := json.Unmarshal([]byte(common.Raw), ns.Common); err != nil {
			return nil, errs.Config(opLoad, name, "common: %v", err)
		}
		ns.Common.Body = dropNull(ns.Common.Body)
	}

	var all []*Template
	var err error
	root.Get("requests").ForEach(func(key, value gjson.Result) bool {
		t := &Template{}
		if err = json.Unmarshal([]byte(value.Raw), t); err != nil {
			err = errs.Config(opLoad, name, "request %q: %v", key.Str, err)
			return false
		}
		t.Name = key.Str
		t.Body = dropNull(t.Body)
		if !t.WithCommon(ns.Common).Method.Valid() {
			err = errs.Config(opLoad, name, "request %q: missing method", key.Str)
			return false
		}
		all = replaceOrAppend(all, t)
		return true
	})
	if err != nil {
		return nil, err
	}

	for _, t := range all {
		if t.AvailableIn(mode) {
			ns.Templates = append(ns.Templates, t)
		}
	}

	return ns, nil
}

// checkDocument reports invalid JSON and schema violations, independent of
// any mode.
func checkDocument(name string, data []byte) error {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return errs.WrapConfig(opLoad, name, fmt.Errorf("invalid JSON: %w", err))
	}

	problems, err := ValidateSchema(data)
	if err != nil {
		return errs.WrapConfig(opLoad, name, err)
	}
	if len(problems) > 0 {
		return errs.WrapConfig(opLoad, name, schemaError(problems))
	}
	return nil
}

// lookupKey finds an object member by exact key; gjson paths would treat
// dots and wildcards in mode names specially.
func lookupKey(obj gjson.Result, key string) (gjson.Result, bool) {
	var found gjson.Result
	ok := false
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found, ok = v, true
		}
		return true
	})
	return found, ok
}

// replaceOrAppend keeps the first position of a duplicated request name
// and its last definition.
func replaceOrAppend(list []*Template, t *Template) []*Template {
	for i, existing := range list {
		if existing.Name == t.Name {
			list[i] = t
			return list
		}
	}
	return append(list, t)
}
