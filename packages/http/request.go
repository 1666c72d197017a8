package http

import "encoding/json"

// BasicAuth holds HTTP Basic authentication credentials.
type BasicAuth struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// Request is a fully resolved outbound request.
type Request struct {
	Method    Method
	URL       string
	Headers   map[string]string
	Body      json.RawMessage
	BasicAuth *BasicAuth
}

func NewRequest(method Method, requestURL string) *Request {
	return &Request{
		Method:  method,
		URL:     requestURL,
		Headers: make(map[string]string),
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

func (r *Request) SetBody(body json.RawMessage) *Request {
	r.Body = body
	return r
}

func (r *Request) SetBasicAuth(username, password string) *Request {
	r.BasicAuth = &BasicAuth{Username: username, Password: password}
	return r
}

// hasBody reports whether a payload goes on the wire.
func (r *Request) hasBody() bool {
	return r.Method.SendsBody() && len(r.Body) > 0
}
