package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/webreq/packages/core/dispatch"
	"github.com/abdul-hamid-achik/webreq/packages/history"
)

// JSONResult is the JSON form of a completed dispatch.
type JSONResult struct {
	Namespace string  `json:"namespace"`
	Mode      string  `json:"mode"`
	Request   string  `json:"request"`
	Method    string  `json:"method"`
	URL       string  `json:"url"`
	Status    int     `json:"status"`
	Reason    string  `json:"reason"`
	OK        bool    `json:"ok"`
	ElapsedMs float64 `json:"elapsedMs"`
	Tier      string  `json:"tier"`
	Artifact  string  `json:"artifact,omitempty"`
	Warning   string  `json:"warning,omitempty"`
}

// JSONHistoryEntry is the JSON form of a history entry.
type JSONHistoryEntry struct {
	ID        int64   `json:"id"`
	Namespace string  `json:"namespace"`
	Mode      string  `json:"mode"`
	Request   string  `json:"request"`
	Method    string  `json:"method"`
	URL       string  `json:"url"`
	Status    int     `json:"status"`
	Reason    string  `json:"reason"`
	ElapsedMs float64 `json:"elapsedMs"`
	Artifact  string  `json:"artifact,omitempty"`
	Time      string  `json:"time"`
}

// JSONError is written in place of a result when a command fails.
type JSONError struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(r *dispatch.Result) error {
	out := JSONResult{
		Namespace: r.Namespace,
		Mode:      r.Mode,
		Request:   r.Request,
		Method:    r.Method.String(),
		URL:       r.URL,
		Status:    r.Status,
		Reason:    r.Reason,
		OK:        r.OK,
		ElapsedMs: r.ElapsedMs(),
		Tier:      r.Tier.String(),
		Artifact:  r.ArtifactPath,
	}
	if r.DecodeErr != nil {
		out.Warning = r.DecodeErr.Error()
	}
	return f.encode(out)
}

func (f *JSONFormatter) FormatHistory(entries []*history.Entry) error {
	out := make([]JSONHistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, JSONHistoryEntry{
			ID:        e.ID,
			Namespace: e.Namespace,
			Mode:      e.Mode,
			Request:   e.Request,
			Method:    e.Method,
			URL:       e.URL,
			Status:    e.Status,
			Reason:    e.Reason,
			ElapsedMs: e.ElapsedMs,
			Artifact:  e.Artifact,
			Time:      e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return f.encode(out)
}

func (f *JSONFormatter) FormatError(err error, kind string) error {
	return f.encode(JSONError{Error: err.Error(), Kind: kind})
}

func (f *JSONFormatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
