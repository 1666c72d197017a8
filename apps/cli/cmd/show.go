package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/abdul-hamid-achik/webreq/packages/core/dispatch"
	"github.com/abdul-hamid-achik/webreq/packages/http"
	"github.com/abdul-hamid-achik/webreq/packages/namespace"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const maskedPassword = "********"

var showRevealFlag bool

var showCmd = &cobra.Command{
	Use:   "show <request>",
	Short: "Print a request with the common defaults applied",
	Long: `Print the request as it will be sent, with the namespace's common
defaults merged in, as YAML. Placeholders are shown unresolved and basic
auth passwords are masked unless --reveal is given.

Examples:
  webreq show getItem --namespace shop`,
	Args:              usageArgs(cobra.ExactArgs(1)),
	RunE:              showCommand,
	ValidArgsFunction: completeRequests,
}

func init() {
	showCmd.Flags().BoolVar(&showRevealFlag, "reveal", false, "Print basic auth passwords in clear text")
}

type requestView struct {
	Namespace  string           `yaml:"namespace"`
	Mode       string           `yaml:"mode"`
	Request    string           `yaml:"request"`
	Method     http.Method      `yaml:"method"`
	URL        string           `yaml:"url"`
	Headers    namespace.Fields `yaml:"headers,omitempty"`
	Parameters namespace.Fields `yaml:"parameters,omitempty"`
	Body       *yaml.Node       `yaml:"body,omitempty"`
	BasicAuth  *http.BasicAuth  `yaml:"basicAuth,omitempty"`
}

func showCommand(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, true)
	if err != nil {
		return err
	}
	name, err := a.namespaceName(nil)
	if err != nil {
		return err
	}
	ns, err := a.store.Load(name, a.settings.Mode)
	if err != nil {
		return err
	}
	tmpl, err := ns.Resolve(args[0])
	if err != nil {
		return err
	}

	view, err := newRequestView(ns, tmpl, a.settings.EncodeQuery, showRevealFlag)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent(2)
	if err := encoder.Encode(view); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	return encoder.Close()
}

func newRequestView(ns *namespace.Namespace, tmpl *namespace.Template, encodeQuery, reveal bool) (*requestView, error) {
	view := &requestView{
		Namespace:  ns.Name,
		Mode:       ns.Mode,
		Request:    tmpl.Name,
		Method:     tmpl.Method,
		URL:        dispatch.BuildURL(ns.BaseURL, tmpl.Endpoint, tmpl.ID.String(), tmpl.Parameters, encodeQuery),
		Headers:    tmpl.Headers,
		Parameters: tmpl.Parameters,
	}

	if tmpl.Method.SendsBody() && len(tmpl.Body) > 0 {
		body, err := jsonToYAML(tmpl.Body)
		if err != nil {
			return nil, fmt.Errorf("request %q: body: %w", tmpl.Name, err)
		}
		view.Body = body
	}

	if tmpl.BasicAuth != nil {
		auth := *tmpl.BasicAuth
		if !reveal {
			auth.Password = maskedPassword
		}
		view.BasicAuth = &auth
	}
	return view, nil
}

// jsonToYAML converts a JSON document to a block style YAML node keeping
// key order. Scalars keep their tags, so strings that look like numbers
// stay quoted.
func jsonToYAML(doc json.RawMessage) (*yaml.Node, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(doc, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	blockStyle(root)
	return root, nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
