package namespace

import (
	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
)

// Namespace is an immutable snapshot of one namespace file resolved for a
// mode. Templates keeps file order and only holds templates available in
// Mode.
type Namespace struct {
	Name      string
	Path      string
	Mode      string
	BaseURL   string
	Templates []*Template
	Common    *Template
	// Variables feed {{name}} placeholders, in file order.
	Variables Fields
}

// Lookup returns the template called name without common defaults.
func (n *Namespace) Lookup(name string) (*Template, error) {
	for _, t := range n.Templates {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, errs.Config("lookup request", name, "no such request in namespace %q for mode %q", n.Name, n.Mode)
}

// Resolve returns a request scoped copy of the template called name with
// the common defaults merged in.
func (n *Namespace) Resolve(name string) (*Template, error) {
	t, err := n.Lookup(name)
	if err != nil {
		return nil, err
	}
	return t.WithCommon(n.Common), nil
}

// At returns the template at menu index i.
func (n *Namespace) At(i int) (*Template, bool) {
	if i < 0 || i >= len(n.Templates) {
		return nil, false
	}
	return n.Templates[i], true
}

func (n *Namespace) Names() []string {
	names := make([]string, len(n.Templates))
	for i, t := range n.Templates {
		names[i] = t.Name
	}
	return names
}

func (n *Namespace) Len() int {
	return len(n.Templates)
}
