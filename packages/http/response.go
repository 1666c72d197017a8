package http

import (
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ContentTypePDF selects raw artifact persistence.
const ContentTypePDF = "application/pdf"

type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// Reason returns the reason phrase of the status line, "OK" for "200 OK".
func (r *Response) Reason() string {
	code := strconv.Itoa(r.StatusCode)
	if reason, ok := strings.CutPrefix(r.Status, code+" "); ok {
		return reason
	}
	if r.Status != "" && r.Status != code {
		return r.Status
	}
	return http.StatusText(r.StatusCode)
}

func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// MediaType returns the content type without parameters, lower cased.
func (r *Response) MediaType() string {
	ct := r.ContentType()
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}

func (r *Response) IsPDF() bool {
	return r.MediaType() == ContentTypePDF
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
