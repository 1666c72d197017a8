package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/abdul-hamid-achik/webreq/packages/http"
)

const (
	// TimestampLayout is the time format embedded in artifact file names.
	TimestampLayout = "2006-01-02_15-04-05"

	ExtJSON = ".json"
	ExtPDF  = ".pdf"
)

// Envelope is the persisted form of a response outside content-only mode.
// Field order is the key order of the written object.
type Envelope struct {
	Status  int               `json:"status"`
	Reason  string            `json:"reason"`
	Headers map[string]string `json:"headers"`
	Content json.RawMessage   `json:"content"`
}

// Saved describes a written artifact.
type Saved struct {
	Path string
	// DecodeErr is set when the body was not JSON and was stored as text.
	DecodeErr *errs.DecodeError
}

// Writer writes response artifacts below a root directory.
type Writer struct {
	root        string
	contentOnly bool
	now         func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithContentOnly stores only the response content instead of an Envelope.
func WithContentOnly(contentOnly bool) Option {
	return func(w *Writer) {
		w.contentOnly = contentOnly
	}
}

// WithClock replaces the clock used for file names.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

func NewWriter(root string, opts ...Option) *Writer {
	w := &Writer{
		root: root,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Writer) Root() string {
	return w.root
}

// Save writes resp as the artifact of request in namespace.
func (w *Writer) Save(namespace, request string, resp *http.Response) (*Saved, error) {
	saved := &Saved{}

	var data []byte
	ext := ExtJSON
	if resp.IsPDF() {
		ext = ExtPDF
		data = resp.Body
	} else {
		content, decodeErr := Content(resp)
		saved.DecodeErr = decodeErr

		var err error
		if w.contentOnly {
			data, err = indent(content)
		} else {
			data, err = json.MarshalIndent(&Envelope{
				Status:  resp.StatusCode,
				Reason:  resp.Reason(),
				Headers: headersOrEmpty(resp.Headers),
				Content: content,
			}, "", "  ")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to encode artifact: %w", err)
		}
		data = append(data, '\n')
	}

	dir := filepath.Join(w.root, namespace)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	path, err := w.create(dir, request, ext, data)
	if err != nil {
		return nil, err
	}
	saved.Path = path
	return saved, nil
}

// create writes data to a fresh file. A second artifact for the same
// request within one second gets a numeric suffix.
func (w *Writer) create(dir, request, ext string, data []byte) (string, error) {
	base := request + "_" + w.now().Format(TimestampLayout)
	for n := 0; ; n++ {
		name := base
		if n > 0 {
			name += "_" + strconv.Itoa(n)
		}
		path := filepath.Join(dir, name+ext)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create artifact: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return "", fmt.Errorf("failed to write artifact: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to write artifact: %w", err)
		}
		return path, nil
	}
}

// Content returns the response body as a JSON value. A body that is not
// valid JSON is returned as a JSON string together with a DecodeError.
func Content(resp *http.Response) (json.RawMessage, *errs.DecodeError) {
	body := bytes.TrimSpace(resp.Body)
	if len(body) > 0 && json.Valid(body) {
		return json.RawMessage(body), nil
	}

	cause := errors.New("empty body")
	if len(body) > 0 {
		var probe any
		cause = json.Unmarshal(body, &probe)
	}
	text, _ := json.Marshal(resp.BodyString())
	return text, &errs.DecodeError{ContentType: resp.ContentType(), Err: cause}
}

func indent(content json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, content, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func headersOrEmpty(h map[string]string) map[string]string {
	if h == nil {
		return map[string]string{}
	}
	return h
}
