package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Method is one of the HTTP verbs a template may use.
type Method int

const (
	MethodGet Method = iota + 1
	MethodPost
	MethodPut
)

// ParseMethod converts a template method name. Names are case sensitive,
// matching the namespace file format.
func ParseMethod(s string) (Method, error) {
	switch s {
	case http.MethodGet:
		return MethodGet, nil
	case http.MethodPost:
		return MethodPost, nil
	case http.MethodPut:
		return MethodPut, nil
	}
	return 0, fmt.Errorf("unsupported method %q (expected GET, POST or PUT)", s)
}

func (m Method) String() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodPost:
		return http.MethodPost
	case MethodPut:
		return http.MethodPut
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut:
		return true
	}
	return false
}

// SendsBody reports whether the template body is sent with this method.
func (m Method) SendsBody() bool {
	switch m {
	case MethodPost, MethodPut:
		return true
	}
	return false
}

func (m *Method) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("method must be a string, got %s", data)
	}
	parsed, err := ParseMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Method) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m Method) MarshalYAML() (any, error) {
	return m.String(), nil
}
