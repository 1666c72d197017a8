package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/webreq/packages/artifact"
	"github.com/abdul-hamid-achik/webreq/packages/core/env"
	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/abdul-hamid-achik/webreq/packages/history"
	"github.com/abdul-hamid-achik/webreq/packages/http"
	"github.com/abdul-hamid-achik/webreq/packages/namespace"
)

// Dispatcher sends templates from one namespace. It handles one dispatch
// at a time.
type Dispatcher struct {
	source      namespace.Source
	client      *http.Client
	writer      *artifact.Writer
	resolver    *env.Resolver
	recorder    history.Recorder
	encodeQuery bool
	warnFunc    env.WarnFunc
}

type Option func(*Dispatcher)

// WithResolver replaces the placeholder resolver. Its warnings are routed
// through the dispatcher's warn function.
func WithResolver(r *env.Resolver) Option {
	return func(d *Dispatcher) {
		d.resolver = r
	}
}

// WithRecorder records every completed dispatch.
func WithRecorder(r history.Recorder) Option {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// WithEncodeQuery escapes query keys and values instead of sending them
// as written.
func WithEncodeQuery(encode bool) Option {
	return func(d *Dispatcher) {
		d.encodeQuery = encode
	}
}

// WithWarnFunc receives soft failures: unresolved placeholders, unescaped
// query values, undecodable bodies and history write errors.
func WithWarnFunc(fn env.WarnFunc) Option {
	return func(d *Dispatcher) {
		d.warnFunc = fn
	}
}

func New(source namespace.Source, client *http.Client, writer *artifact.Writer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		source: source,
		client: client,
		writer: writer,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.resolver == nil {
		d.resolver = env.NewResolver()
	}
	d.resolver.SetWarnFunc(d.warn)
	return d
}

func (d *Dispatcher) warn(format string, args ...any) {
	if d.warnFunc != nil {
		d.warnFunc(format, args...)
	}
}

// Source returns the snapshot source the dispatcher reads from.
func (d *Dispatcher) Source() namespace.Source {
	return d.source
}

// Result is the outcome of a completed dispatch.
type Result struct {
	Namespace    string
	Mode         string
	Request      string
	Method       http.Method
	URL          string
	Status       int
	Reason       string
	Elapsed      time.Duration
	OK           bool
	Tier         Tier
	ArtifactPath string
	DecodeErr    *errs.DecodeError
	Response     *http.Response
}

func (r *Result) ElapsedMs() float64 {
	return float64(r.Elapsed.Microseconds()) / 1000
}

// Prepared is a resolved request ready to be sent.
type Prepared struct {
	Namespace *namespace.Namespace
	Template  *namespace.Template
	Request   *http.Request
}

// Prepare resolves the template called name against a fresh snapshot
// without sending it.
func (d *Dispatcher) Prepare(name string) (*Prepared, error) {
	ns, err := d.source.Snapshot()
	if err != nil {
		return nil, err
	}
	tmpl, err := ns.Resolve(name)
	if err != nil {
		return nil, err
	}
	d.resolver.SetVariables(ns.Variables.Map())
	req, err := d.Build(ns.BaseURL, tmpl)
	if err != nil {
		return nil, err
	}
	return &Prepared{Namespace: ns, Template: tmpl, Request: req}, nil
}

// Dispatch sends the template called name and persists the response.
// Non-2xx responses are not errors; inspect Result.OK.
func (d *Dispatcher) Dispatch(ctx context.Context, name string) (*Result, error) {
	p, err := d.Prepare(name)
	if err != nil {
		return nil, err
	}
	return d.Send(ctx, p)
}

// Send executes a prepared request.
func (d *Dispatcher) Send(ctx context.Context, p *Prepared) (*Result, error) {
	resp, err := d.client.Do(ctx, p.Request)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Namespace: p.Namespace.Name,
		Mode:      p.Namespace.Mode,
		Request:   p.Template.Name,
		Method:    p.Request.Method,
		URL:       p.Request.URL,
		Status:    resp.StatusCode,
		Reason:    resp.Reason(),
		Elapsed:   resp.Duration,
		OK:        resp.IsSuccess(),
		Tier:      TierFor(resp.Duration),
		Response:  resp,
	}

	saved, err := d.writer.Save(p.Namespace.Name, p.Template.Name, resp)
	if err != nil {
		return result, fmt.Errorf("persisting response of %s: %w", p.Template.Name, err)
	}
	result.ArtifactPath = saved.Path
	if saved.DecodeErr != nil {
		result.DecodeErr = saved.DecodeErr
		d.warn("Failed to decode response content as JSON (%v), stored raw content instead", saved.DecodeErr.Err)
	}

	if d.recorder != nil {
		if err := d.recorder.Record(ctx, d.entry(result)); err != nil {
			d.warn("%v", err)
		}
	}

	return result, nil
}

func (d *Dispatcher) entry(r *Result) *history.Entry {
	return &history.Entry{
		Namespace: r.Namespace,
		Mode:      r.Mode,
		Request:   r.Request,
		Method:    r.Method.String(),
		URL:       r.URL,
		Status:    r.Status,
		Reason:    r.Reason,
		ElapsedMs: r.ElapsedMs(),
		Artifact:  r.ArtifactPath,
	}
}

// Build expands placeholders in a merged template and turns it into a
// request against baseURL.
func (d *Dispatcher) Build(baseURL string, tmpl *namespace.Template) (*http.Request, error) {
	if !tmpl.Method.Valid() {
		return nil, errs.Config("build request", tmpl.Name, "unsupported method %s", tmpl.Method)
	}

	params := d.resolveFields(tmpl.Parameters)
	if !d.encodeQuery {
		if unsafe := UnsafeParams(params); len(unsafe) > 0 {
			d.warn("Query parameters %s of %s are not URL-safe and are sent unescaped (set encodeQuery to escape them)",
				strings.Join(unsafe, ", "), tmpl.Name)
		}
	}

	endpoint := d.resolver.Resolve(tmpl.Endpoint)
	id := d.resolver.Resolve(tmpl.ID.String())
	req := http.NewRequest(tmpl.Method, BuildURL(baseURL, endpoint, id, params, d.encodeQuery))

	for _, h := range d.resolveFields(tmpl.Headers) {
		req.SetHeader(h.Key, h.Value)
	}

	if tmpl.Method.SendsBody() && tmpl.HasBody() {
		body, err := d.resolver.ResolveJSON(tmpl.Body)
		if err != nil {
			return nil, errs.Config("build request", tmpl.Name, "body: %v", err)
		}
		req.SetBody(body)
	}

	if tmpl.BasicAuth != nil {
		req.SetBasicAuth(d.resolver.Resolve(tmpl.BasicAuth.Username), d.resolver.Resolve(tmpl.BasicAuth.Password))
	}

	return req, nil
}

func (d *Dispatcher) resolveFields(fields namespace.Fields) namespace.Fields {
	if len(fields) == 0 {
		return nil
	}
	out := make(namespace.Fields, len(fields))
	for i, f := range fields {
		out[i] = namespace.Field{Key: f.Key, Value: d.resolver.Resolve(f.Value)}
	}
	return out
}
