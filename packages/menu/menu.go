package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/webreq/packages/core/dispatch"
	"github.com/abdul-hamid-achik/webreq/packages/namespace"
	"github.com/abdul-hamid-achik/webreq/packages/output"
)

// QuitKey ends the picker or the loop.
const QuitKey = "q"

// ErrQuit is returned when the operator quits or input ends.
var ErrQuit = errors.New("quit")

var (
	errNotNumber  = errors.New("not a number")
	errOutOfRange = errors.New("out of range")
)

// ChangeNotifier reports whether the namespace file changed since the
// last call. *namespace.Watcher implements it.
type ChangeNotifier interface {
	Changed() bool
}

// Prompter reads selections from the operator.
type Prompter struct {
	in      *bufio.Reader
	console *output.Console
}

func NewPrompter(in io.Reader, console *output.Console) *Prompter {
	return &Prompter{in: bufio.NewReader(in), console: console}
}

// readLine prompts with label and returns the answer without its line
// ending. End of input is reported as ErrQuit.
func (p *Prompter) readLine(label string) (string, error) {
	p.console.Prompt(label)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrQuit
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// parseChoice accepts decimal digits only, so signs and blanks are not
// numbers.
func parseChoice(line string, n int) (int, error) {
	if line == "" {
		return 0, errNotNumber
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return 0, errNotNumber
		}
	}
	i, err := strconv.Atoi(line)
	if err != nil || i >= n {
		return 0, errOutOfRange
	}
	return i, nil
}

func (p *Prompter) report(err error, kind string) {
	if errors.Is(err, errNotNumber) {
		p.console.NotANumber()
		return
	}
	p.console.InvalidNumber(kind)
}

// PickNamespace shows names and asks until a valid number or "q" is
// entered.
func (p *Prompter) PickNamespace(names []string) (string, error) {
	p.console.NamespacePicker(names)
	for {
		line, err := p.readLine("Namespace number")
		if err != nil {
			return "", err
		}
		if line == QuitKey {
			return "", ErrQuit
		}
		i, err := parseChoice(line, len(names))
		if err != nil {
			p.report(err, "namespace")
			continue
		}
		fmt.Fprintln(p.console.Writer())
		return names[i], nil
	}
}

// Loop serves request selections until the operator quits.
type Loop struct {
	prompter   *Prompter
	console    *output.Console
	dispatcher *dispatch.Dispatcher
	notifier   ChangeNotifier
	current    *namespace.Namespace
}

type LoopOption func(*Loop)

// WithChangeNotifier refreshes the menu when the namespace file changes.
func WithChangeNotifier(n ChangeNotifier) LoopOption {
	return func(l *Loop) {
		l.notifier = n
	}
}

func NewLoop(prompter *Prompter, console *output.Console, dispatcher *dispatch.Dispatcher, opts ...LoopOption) *Loop {
	l := &Loop{
		prompter:   prompter,
		console:    console,
		dispatcher: dispatcher,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run shows the menu, dispatches selections and returns nil when the
// operator quits. Dispatch failures are printed and the loop goes on.
func (l *Loop) Run(ctx context.Context) error {
	ns, err := l.dispatcher.Source().Snapshot()
	if err != nil {
		return err
	}
	l.current = ns

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.refresh()
		l.console.Menu(l.current)

		line, err := l.prompter.readLine("Request number")
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		if line == QuitKey {
			return nil
		}

		i, err := parseChoice(line, l.current.Len())
		if err != nil {
			l.prompter.report(err, "request")
			continue
		}
		l.dispatch(ctx, l.current.Templates[i].Name)
	}
}

func (l *Loop) refresh() {
	if l.notifier == nil || !l.notifier.Changed() {
		return
	}
	ns, err := l.dispatcher.Source().Snapshot()
	if err != nil {
		l.console.Error(err)
		return
	}
	l.current = ns
	l.console.Reloaded(ns)
}

func (l *Loop) dispatch(ctx context.Context, name string) {
	prepared, err := l.dispatcher.Prepare(name)
	if err != nil {
		l.console.Error(err)
		return
	}
	// a live snapshot may differ from the menu that was shown
	l.current = prepared.Namespace

	l.console.Sending(name, prepared.Request)
	result, err := l.dispatcher.Send(ctx, prepared)
	if err != nil {
		l.console.Error(err)
		return
	}
	l.console.Result(result)
}
