package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/webreq/packages/core/dispatch"
	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/abdul-hamid-achik/webreq/packages/history"
	"github.com/abdul-hamid-achik/webreq/packages/http"
	"github.com/abdul-hamid-achik/webreq/packages/namespace"
	"github.com/fatih/color"
)

var (
	green   = color.New(color.FgGreen).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	magenta = color.New(color.FgHiMagenta).SprintFunc()
	cyan    = color.New(color.FgHiCyan).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
)

type Console struct {
	writer  io.Writer
	noColor bool
}

type ConsoleOption func(*Console)

func NewConsole(opts ...ConsoleOption) *Console {
	c := &Console{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.noColor {
		color.NoColor = true
	}
	return c
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(c *Console) {
		c.writer = w
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(c *Console) {
		c.noColor = nc
	}
}

func (c *Console) Writer() io.Writer {
	return c.writer
}

func (c *Console) Banner() {
	fmt.Fprintln(c.writer, "-------------------")
	fmt.Fprintln(c.writer, "|  WEB REQUESTER  |")
	fmt.Fprintln(c.writer, "-------------------")
	fmt.Fprintln(c.writer)
}

// NamespacePicker lists the discovered namespaces by menu number.
func (c *Console) NamespacePicker(names []string) {
	fmt.Fprintln(c.writer, "Pick a namespace:")
	fmt.Fprintln(c.writer)
	for i, name := range names {
		fmt.Fprintf(c.writer, " > %d\t%s\n", i, cyan(name))
	}
	c.QuitOption()
}

// Menu lists the requests of ns with their target URLs, query excluded,
// followed by the quit option.
func (c *Console) Menu(ns *namespace.Namespace) {
	c.Templates(ns)
	c.QuitOption()
}

// Templates lists the requests of ns by menu number.
func (c *Console) Templates(ns *namespace.Namespace) {
	fmt.Fprintf(c.writer, "Requests for %s in %s mode:\n", cyan(ns.Name), magenta(ns.Mode))
	fmt.Fprintln(c.writer)
	for i, t := range ns.Templates {
		merged := t.WithCommon(ns.Common)
		url := dispatch.BuildURL(ns.BaseURL, merged.Endpoint, merged.ID.String(), nil, false)
		fmt.Fprintf(c.writer, " > %d\t%s %s => %s\n", i, magenta(merged.Method), cyan(t.Name), url)
	}
}

func (c *Console) QuitOption() {
	fmt.Fprintln(c.writer)
	fmt.Fprintf(c.writer, " > q\t%s\n", magenta("QUIT"))
	fmt.Fprintln(c.writer)
}

// Prompt writes label without a trailing newline.
func (c *Console) Prompt(label string) {
	fmt.Fprintf(c.writer, "> %s: ", label)
}

func (c *Console) NotANumber() {
	fmt.Fprintln(c.writer, yellow("Not a number"))
}

// InvalidNumber reports an out of range selection; kind is "request" or
// "namespace".
func (c *Console) InvalidNumber(kind string) {
	fmt.Fprintln(c.writer, yellow(fmt.Sprintf("Invalid %s number", kind)))
}

func (c *Console) Reloaded(ns *namespace.Namespace) {
	fmt.Fprintln(c.writer, yellow(fmt.Sprintf("Reloaded %s", ns.Path)))
	fmt.Fprintln(c.writer)
}

func (c *Console) Sending(name string, req *http.Request) {
	fmt.Fprintln(c.writer)
	fmt.Fprintf(c.writer, "Sending %s %s request to: %s...\n", magenta(req.Method), cyan(name), req.URL)
}

func (c *Console) Result(r *dispatch.Result) {
	status := green
	if !r.OK {
		status = red
	}
	ms := green
	switch r.Tier {
	case dispatch.TierWarning:
		ms = yellow
	case dispatch.TierError:
		ms = red
	}

	fmt.Fprintf(c.writer, "Response returned with %s in %s\n",
		status(fmt.Sprintf("%d (%s)", r.Status, r.Reason)),
		ms(fmt.Sprintf("%.1f ms", r.ElapsedMs())))
	if r.ArtifactPath != "" {
		fmt.Fprintf(c.writer, "Response file: %s\n", r.ArtifactPath)
	}
	fmt.Fprintln(c.writer)
}

func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintln(c.writer, yellow(fmt.Sprintf(format, args...)))
}

// Error reports err. Transport failures get the connection error banner
// followed by the cause.
func (c *Console) Error(err error) {
	var te *errs.TransportError
	if errors.As(err, &te) {
		fmt.Fprintln(c.writer)
		fmt.Fprintln(c.writer, red("REQUEST FAILED WITH A CONNECTION ERROR:"))
		fmt.Fprintln(c.writer, err)
		fmt.Fprintln(c.writer)
		return
	}
	fmt.Fprintf(c.writer, "%s %v\n", red("Error:"), err)
}

// Namespaces prints discovered namespace names, one per line.
func (c *Console) Namespaces(dir string, names []string) {
	if len(names) == 0 {
		fmt.Fprintf(c.writer, "No namespace files found in %s\n", dir)
		return
	}
	fmt.Fprintf(c.writer, "%s\n", bold("Namespaces in "+dir))
	for i, name := range names {
		fmt.Fprintf(c.writer, "  %d  %s\n", i, cyan(name))
	}
}

// Validation prints the outcome of validating one namespace file.
func (c *Console) Validation(name string, err error) {
	if err == nil {
		fmt.Fprintf(c.writer, "%s %s\n", green("✓"), name)
		return
	}
	fmt.Fprintf(c.writer, "%s %s\n", red("✗"), name)
	fmt.Fprintf(c.writer, "    %v\n", err)
}

func (c *Console) History(entries []*history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(c.writer, "No dispatches recorded")
		return
	}
	for _, e := range entries {
		status := green
		if e.Status < 200 || e.Status >= 300 {
			status = red
		}
		fmt.Fprintf(c.writer, "%s  %s/%s  %s %s  %s  %.1f ms\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			cyan(e.Namespace), magenta(e.Mode),
			magenta(e.Method), e.Request,
			status(fmt.Sprintf("%d %s", e.Status, e.Reason)),
			e.ElapsedMs)
		if e.Artifact != "" {
			fmt.Fprintf(c.writer, "    %s\n", e.Artifact)
		}
	}
}

// Added reports a request appended to a namespace file.
func (c *Console) Added(tmpl *namespace.Template, path string) {
	fmt.Fprintf(c.writer, "%s %s %s => %s\n", green("Added"), magenta(tmpl.Method), cyan(tmpl.Name), path)
}
