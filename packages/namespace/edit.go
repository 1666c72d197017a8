package namespace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/tidwall/gjson"
)

const opAdd = "add request"

// AppendTemplate returns data with t added as the last member of the
// "requests" object. Existing members keep their order; the result is
// re-indented with two spaces.
func AppendTemplate(data []byte, t *Template) ([]byte, error) {
	if t.Name == "" {
		return nil, fmt.Errorf("request name is empty")
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	requests := gjson.GetBytes(data, "requests")
	start, end := requests.Index, requests.Index+len(requests.Raw)
	if !requests.IsObject() || end > len(data) || string(data[start:end]) != requests.Raw {
		return nil, fmt.Errorf("no requests object")
	}
	if _, ok := lookupKey(requests, t.Name); ok {
		return nil, fmt.Errorf("request %q already exists", t.Name)
	}

	key, err := json.Marshal(t.Name)
	if err != nil {
		return nil, err
	}
	entry, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}

	inner := bytes.TrimSpace(data[start+1 : end-1])

	var buf bytes.Buffer
	buf.Write(data[:start])
	buf.WriteByte('{')
	if len(inner) > 0 {
		buf.Write(inner)
		buf.WriteByte(',')
	}
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(entry)
	buf.WriteByte('}')
	buf.Write(data[end:])

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(buf.Bytes()), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Add appends t to the namespace file called name. The file must still
// load for mode afterwards; otherwise it is left untouched.
func (s *Store) Add(name, mode string, t *Template) error {
	data, err := s.read(name)
	if err != nil {
		return err
	}

	updated, err := AppendTemplate(data, t)
	if err != nil {
		return errs.WrapConfig(opAdd, name, err)
	}
	if _, err := Parse(name, mode, updated); err != nil {
		return err
	}

	info, err := os.Stat(s.Path(name))
	if err != nil {
		return errs.WrapConfig(opAdd, name, err)
	}
	if err := os.WriteFile(s.Path(name), updated, info.Mode().Perm()); err != nil {
		return errs.WrapConfig(opAdd, name, err)
	}
	return nil
}
