// Package curl turns curl command lines into namespace request templates.
package curl

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/webreq/packages/http"
	"github.com/abdul-hamid-achik/webreq/packages/namespace"
)

// Command is a parsed curl command line.
type Command struct {
	Method    string
	URL       string
	Headers   namespace.Fields
	Body      string
	BasicAuth string
	Insecure  bool
}

// Parse parses a curl command line. Line continuations are accepted, so a
// command copied from browser developer tools can be passed as is.
func Parse(curlCmd string) (*Command, error) {
	parsed := &Command{Method: "GET"}
	explicitMethod := false

	curlCmd = strings.ReplaceAll(strings.TrimSpace(curlCmd), "\\\n", " ")
	if rest, ok := strings.CutPrefix(curlCmd, "curl"); ok && (rest == "" || isSpace(rune(rest[0]))) {
		curlCmd = rest
	}

	tokens := tokenize(curlCmd)

	i := 0
	for i < len(tokens) {
		token := tokens[i]

		value := func() (string, error) {
			if i+1 >= len(tokens) {
				return "", fmt.Errorf("missing value for %s", token)
			}
			i += 2
			return tokens[i-1], nil
		}

		switch token {
		case "-X", "--request":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Method = v
			explicitMethod = true

		case "-H", "--header":
			v, err := value()
			if err != nil {
				return nil, err
			}
			if key, val, ok := strings.Cut(v, ":"); ok {
				parsed.Headers = setField(parsed.Headers, strings.TrimSpace(key), strings.TrimSpace(val))
			}

		case "-d", "--data", "--data-raw", "--data-binary", "--json":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Body = v
			if !explicitMethod {
				parsed.Method = "POST"
			}

		case "-u", "--user":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.BasicAuth = v

		case "-A", "--user-agent":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Headers = setField(parsed.Headers, "User-Agent", v)

		case "-e", "--referer":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Headers = setField(parsed.Headers, "Referer", v)

		case "-b", "--cookie":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Headers = setField(parsed.Headers, "Cookie", v)

		case "-k", "--insecure":
			parsed.Insecure = true
			i++

		case "--url":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.URL = v

		default:
			switch {
			case strings.HasPrefix(token, "-"):
				// unknown flag, possibly with a value
				if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") && !isURL(tokens[i+1]) {
					i += 2
				} else {
					i++
				}
			case parsed.URL == "" && isURL(token):
				parsed.URL = token
				i++
			default:
				i++
			}
		}
	}

	if parsed.URL == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}
	return parsed, nil
}

// Template converts the command into a request template relative to
// baseURL, the namespace's base URL for the active mode. The query string
// becomes the template's parameters in command-line order.
func (c *Command) Template(name, baseURL string) (*namespace.Template, error) {
	method, err := http.ParseMethod(c.Method)
	if err != nil {
		return nil, err
	}

	raw, _, _ := strings.Cut(c.URL, "#")
	path, query, _ := strings.Cut(raw, "?")

	base := strings.TrimRight(baseURL, "/")
	rest, ok := strings.CutPrefix(path, base)
	if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
		return nil, fmt.Errorf("%s is not under the base url %s", c.URL, baseURL)
	}
	endpoint := strings.Trim(rest, "/")

	if name == "" {
		name = generateName(endpoint, c.Method)
	}

	tmpl := &namespace.Template{
		Name:       name,
		Endpoint:   endpoint,
		Method:     method,
		Headers:    c.Headers,
		Parameters: parseQuery(query),
	}

	if c.Body != "" {
		if !method.SendsBody() {
			return nil, fmt.Errorf("%s requests cannot carry a body", method)
		}
		if !json.Valid([]byte(c.Body)) {
			return nil, fmt.Errorf("body is not JSON")
		}
		tmpl.Body = json.RawMessage(c.Body)
	}

	if c.BasicAuth != "" {
		user, pass, _ := strings.Cut(c.BasicAuth, ":")
		tmpl.BasicAuth = &http.BasicAuth{Username: user, Password: pass}
	}

	return tmpl, nil
}

func parseQuery(query string) namespace.Fields {
	var params namespace.Fields
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		params = setField(params, unescape(key), unescape(value))
	}
	return params
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

func setField(fields namespace.Fields, key, value string) namespace.Fields {
	for i := range fields {
		if fields[i].Key == key {
			fields[i].Value = value
			return fields
		}
	}
	return append(fields, namespace.Field{Key: key, Value: value})
}

// tokenize splits a curl command into tokens, respecting quotes.
func tokenize(cmd string) []string {
	var tokens []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false

	for _, r := range cmd {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch {
		case r == '\\' && !inSingleQuote:
			escaped = true
		case r == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote
		case r == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
		case isSpace(r) && !inSingleQuote && !inDoubleQuote:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

var nonWord = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// generateName derives a request name such as get_items_search from the
// endpoint and method.
func generateName(endpoint, method string) string {
	name := strings.Trim(nonWord.ReplaceAllString(endpoint, "_"), "_")
	if name == "" {
		name = "root"
	}
	return strings.ToLower(method) + "_" + name
}
