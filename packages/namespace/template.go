package namespace

import (
	"bytes"
	"encoding/json"

	"github.com/abdul-hamid-achik/webreq/packages/http"
	"github.com/tidwall/gjson"
)

// Template is one named request definition.
type Template struct {
	Name       string          `json:"-"`
	Endpoint   string          `json:"endpoint"`
	Method     http.Method     `json:"method"`
	Mode       string          `json:"mode,omitempty"`
	ID         Literal         `json:"id,omitempty"`
	Headers    Fields          `json:"headers,omitempty"`
	Parameters Fields          `json:"parameters,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
	BasicAuth  *http.BasicAuth `json:"basicAuth,omitempty"`
}

// AvailableIn reports whether the template is exposed in mode.
func (t *Template) AvailableIn(mode string) bool {
	return t.Mode == "" || t.Mode == mode
}

// WithCommon returns a copy of t with the namespace defaults filled in.
// Fields t defines are never overwritten; for headers, parameters, object
// bodies and basic auth the merge is per subkey. t and common are not
// modified, and applying the same defaults twice changes nothing.
func (t *Template) WithCommon(common *Template) *Template {
	out := t.clone()
	if common == nil {
		return out
	}

	if out.Endpoint == "" {
		out.Endpoint = common.Endpoint
	}
	if out.Method == 0 {
		out.Method = common.Method
	}
	if out.Mode == "" {
		out.Mode = common.Mode
	}
	if out.ID == "" {
		out.ID = common.ID
	}
	out.Headers = t.Headers.Merge(common.Headers)
	out.Parameters = t.Parameters.Merge(common.Parameters)
	out.Body = mergeBody(t.Body, common.Body)

	switch {
	case out.BasicAuth == nil && common.BasicAuth != nil:
		auth := *common.BasicAuth
		out.BasicAuth = &auth
	case out.BasicAuth != nil && common.BasicAuth != nil:
		if out.BasicAuth.Username == "" {
			out.BasicAuth.Username = common.BasicAuth.Username
		}
		if out.BasicAuth.Password == "" {
			out.BasicAuth.Password = common.BasicAuth.Password
		}
	}

	return out
}

// HasBody reports whether the template carries a JSON body; a null body
// counts as none.
func (t *Template) HasBody() bool {
	return len(dropNull(t.Body)) > 0
}

func dropNull(body json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return body
}

func (t *Template) clone() *Template {
	out := *t
	out.Headers = t.Headers.clone()
	out.Parameters = t.Parameters.clone()
	if t.Body != nil {
		out.Body = append(json.RawMessage(nil), t.Body...)
	}
	if t.BasicAuth != nil {
		auth := *t.BasicAuth
		out.BasicAuth = &auth
	}
	return &out
}

// mergeBody fills keys missing from an object body with the default
// object's keys. Non-object bodies are taken as they are.
func mergeBody(body, defaults json.RawMessage) json.RawMessage {
	if dropNull(body) == nil {
		if dropNull(defaults) == nil {
			return nil
		}
		return append(json.RawMessage(nil), defaults...)
	}
	own := gjson.ParseBytes(body)
	def := gjson.ParseBytes(defaults)
	if !own.IsObject() || !def.IsObject() {
		return append(json.RawMessage(nil), body...)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	seen := make(map[string]bool)
	first := true
	write := func(key, value gjson.Result) bool {
		if seen[key.Str] {
			return true
		}
		seen[key.Str] = true
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(key.Raw)
		buf.WriteByte(':')
		buf.WriteString(value.Raw)
		return true
	}
	own.ForEach(write)
	def.ForEach(write)
	buf.WriteByte('}')
	return buf.Bytes()
}
