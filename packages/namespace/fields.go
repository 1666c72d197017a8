package namespace

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Field is one key/value pair of a headers or parameters object.
type Field struct {
	Key   string
	Value string
}

// Fields keeps the key order of the namespace file, which is the order
// query parameters are appended in.
type Fields []Field

func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

func (f Fields) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Map returns the fields as a map, losing order.
func (f Fields) Map() map[string]string {
	m := make(map[string]string, len(f))
	for _, field := range f {
		m[field.Key] = field.Value
	}
	return m
}

// Merge returns f followed by the entries of defaults whose key f lacks.
// Neither input is modified.
func (f Fields) Merge(defaults Fields) Fields {
	if len(defaults) == 0 {
		return f.clone()
	}
	out := f.clone()
	for _, d := range defaults {
		if !f.Has(d.Key) {
			out = append(out, d)
		}
	}
	return out
}

func (f Fields) clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	copy(out, f)
	return out
}

func (f *Fields) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid JSON object")
	}
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*f = nil
		return nil
	}
	if !res.IsObject() {
		return fmt.Errorf("expected an object, got %s", res.Raw)
	}

	out := Fields{}
	var err error
	res.ForEach(func(key, value gjson.Result) bool {
		var text string
		text, err = literalText(value)
		if err != nil {
			err = fmt.Errorf("value of %q: %w", key.Str, err)
			return false
		}
		out = out.set(key.Str, text)
		return true
	})
	if err != nil {
		return err
	}
	*f = out
	return nil
}

// set replaces an existing key in place; a duplicate key in the file
// keeps its first position and its last value.
func (f Fields) set(key, value string) Fields {
	for i := range f {
		if f[i].Key == key {
			f[i].Value = value
			return f
		}
	}
	return append(f, Field{Key: key, Value: value})
}

func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f Fields) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, field := range f {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: field.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: field.Value, Tag: "!!str"},
		)
	}
	return node, nil
}

// Literal is a string, number or boolean from the namespace file kept as
// the text it renders to in a URL or header.
type Literal string

func (l *Literal) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid JSON value")
	}
	text, err := literalText(gjson.ParseBytes(data))
	if err != nil {
		return err
	}
	*l = Literal(text)
	return nil
}

func (l Literal) String() string {
	return string(l)
}

func literalText(v gjson.Result) (string, error) {
	switch v.Type {
	case gjson.String:
		return v.Str, nil
	case gjson.Number, gjson.True, gjson.False:
		return v.Raw, nil
	case gjson.Null:
		return "", nil
	}
	return "", fmt.Errorf("expected a string, number or boolean, got %s", v.Raw)
}
