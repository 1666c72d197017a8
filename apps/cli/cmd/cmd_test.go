package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default between runs of the
// shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--no-color"))
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// workspace creates a working directory with one namespace pointing at
// baseURL and switches into it.
func workspace(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "requests"), 0755))
	shop := fmt.Sprintf(`{
  "url": {"PROD": %q},
  "common": {"basicAuth": {"username": "svc", "password": "hunter2"}},
  "requests": {
    "listItems": {"endpoint": "items", "method": "GET", "parameters": {"page": 1}},
    "getItem": {"endpoint": "items", "method": "GET", "id": 42},
    "create": {"endpoint": "items", "method": "POST", "body": {"name": "x", "tags": ["a"]}}
  }
}`, baseURL)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requests", "shop.json"), []byte(shop), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requests", "shop.json.example"), []byte(shop), 0644))
	chdir(t, dir)
	return dir
}

func statusServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"path": "` + r.URL.Path + `"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"explicit", &exitError{code: ExitRequestFailure}, ExitRequestFailure},
		{"usage", &usageError{err: errors.New("bad flag")}, ExitUsageError},
		{"config", errs.Config("load namespace", "shop", "missing url"), ExitConfigError},
		{"wrapped config", fmt.Errorf("outer: %w", errs.Config("x", "", "y")), ExitConfigError},
		{"transport", &errs.TransportError{Method: "GET", URL: "u", Err: errors.New("refused")}, ExitNetworkError},
		{"other", errors.New("boom"), ExitRequestFailure},
		{"usage wrapping config", &usageError{err: errs.Config("select namespace", "", "none")}, ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestSendCommand(t *testing.T) {
	server := statusServer(t, http.StatusOK)
	dir := workspace(t, server.URL)

	out, err := execute(t, "", "send", "getItem", "--mode", "PROD", "--namespace", "shop")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Sending GET getItem request to: "+server.URL+"/items/42...")
	assert.Contains(t, out, "Response returned with 200 (OK)")

	entries, err := os.ReadDir(filepath.Join(dir, "responses", "shop"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "getItem_"))
}

func TestSendCommand_UserAgent(t *testing.T) {
	agents := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)
	workspace(t, server.URL)

	out, err := execute(t, "", "send", "getItem", "--mode", "PROD", "--namespace", "shop")
	require.NoError(t, err, out)
	assert.Equal(t, "webreq/dev", <-agents)
}

func TestSendCommand_JSONOutput(t *testing.T) {
	server := statusServer(t, http.StatusOK)
	workspace(t, server.URL)

	out, err := execute(t, "", "send", "listItems", "-m", "PROD", "-n", "shop", "-o", "json")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"url": "`+server.URL+`/items?page=1"`)
	assert.Contains(t, out, `"ok": true`)
}

func TestSendCommand_Non2xx(t *testing.T) {
	server := statusServer(t, http.StatusNotFound)
	workspace(t, server.URL)

	out, err := execute(t, "", "send", "getItem", "-m", "PROD", "-n", "shop")
	require.Error(t, err)
	assert.Equal(t, ExitRequestFailure, exitCode(err))
	assert.Contains(t, out, "Response returned with 404 (Not Found)")
}

func TestSendCommand_Errors(t *testing.T) {
	server := statusServer(t, http.StatusOK)
	deadURL := server.URL
	server.Close()

	t.Run("transport", func(t *testing.T) {
		dir := workspace(t, deadURL)
		_, err := execute(t, "", "send", "getItem", "-m", "PROD", "-n", "shop")
		require.Error(t, err)
		assert.Equal(t, ExitNetworkError, exitCode(err))
		_, statErr := os.Stat(filepath.Join(dir, "responses"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("missing mode", func(t *testing.T) {
		t.Setenv("WEBREQ_MODE", "")
		workspace(t, deadURL)
		_, err := execute(t, "", "send", "getItem", "-n", "shop")
		require.Error(t, err)
		assert.Equal(t, ExitConfigError, exitCode(err))
	})

	t.Run("unknown mode", func(t *testing.T) {
		workspace(t, deadURL)
		_, err := execute(t, "", "send", "getItem", "-m", "QA", "-n", "shop")
		require.Error(t, err)
		assert.Equal(t, ExitConfigError, exitCode(err))
		assert.Contains(t, err.Error(), `missing url for mode "QA"`)
	})

	t.Run("unknown namespace", func(t *testing.T) {
		workspace(t, deadURL)
		_, err := execute(t, "", "send", "getItem", "-m", "PROD", "-n", "example")
		require.Error(t, err)
		assert.Equal(t, ExitConfigError, exitCode(err))
	})

	t.Run("no namespace", func(t *testing.T) {
		t.Setenv("WEBREQ_NAMESPACE", "")
		workspace(t, deadURL)
		_, err := execute(t, "", "send", "getItem", "-m", "PROD")
		require.Error(t, err)
		assert.Equal(t, ExitUsageError, exitCode(err))
	})

	t.Run("missing argument", func(t *testing.T) {
		workspace(t, deadURL)
		_, err := execute(t, "", "send", "-m", "PROD", "-n", "shop")
		require.Error(t, err)
		assert.Equal(t, ExitUsageError, exitCode(err))
	})

	t.Run("unknown flag", func(t *testing.T) {
		workspace(t, deadURL)
		_, err := execute(t, "", "send", "getItem", "--bogus")
		require.Error(t, err)
		assert.Equal(t, ExitUsageError, exitCode(err))
	})
}

func TestSettingsFile(t *testing.T) {
	server := statusServer(t, http.StatusOK)
	dir := workspace(t, server.URL)
	settings := `{"mode": "PROD", "namespace": "shop", "contentOnly": true, "responsesDir": "out"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(settings), 0644))

	out, err := execute(t, "", "send", "create")
	require.NoError(t, err, out)

	entries, err := os.ReadDir(filepath.Join(dir, "out", "shop"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(dir, "out", "shop", entries[0].Name()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"path": "/items"}`, string(data))
}

func TestInteractive(t *testing.T) {
	server := statusServer(t, http.StatusOK)
	workspace(t, server.URL)

	out, err := execute(t, "0\n7\n1\nq\n", "-m", "PROD")
	require.NoError(t, err, out)

	assert.Contains(t, out, "|  WEB REQUESTER  |")
	assert.Contains(t, out, "Pick a namespace:")
	assert.Contains(t, out, " > 0\tshop")
	assert.Contains(t, out, " > 1\tGET getItem => "+server.URL+"/items/42")
	assert.Contains(t, out, "Invalid request number")
	assert.Equal(t, 1, strings.Count(out, "Response returned with 200 (OK)"))
}

func TestInteractive_QuitFromPicker(t *testing.T) {
	server := statusServer(t, http.StatusOK)
	workspace(t, server.URL)

	out, err := execute(t, "q\n", "-m", "PROD")
	require.NoError(t, err)
	assert.NotContains(t, out, "Requests for")
}

func TestInteractive_NoNamespaces(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "requests"), 0755))
	chdir(t, dir)

	_, err := execute(t, "", "-m", "PROD")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
	assert.Contains(t, err.Error(), "no valid request json files found")
}

func TestListCommand(t *testing.T) {
	server := statusServer(t, http.StatusOK)
	workspace(t, server.URL)

	t.Setenv("WEBREQ_NAMESPACE", "")
	out, err := execute(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Namespaces in requests")
	assert.Contains(t, out, "0  shop")
	assert.NotContains(t, out, "example")

	out, err = execute(t, "", "list", "shop", "-m", "PROD")
	require.NoError(t, err)
	assert.Contains(t, out, " > 2\tPOST create => "+server.URL+"/items")
	assert.NotContains(t, out, "QUIT")
}

func TestValidateCommand(t *testing.T) {
	server := statusServer(t, http.StatusOK)
	dir := workspace(t, server.URL)

	out, err := execute(t, "", "validate")
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ shop")

	bad := `{"url": {"PROD": "x"}, "requests": {"drop": {"endpoint": "a", "method": "DELETE"}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requests", "broken.json"), []byte(bad), 0644))

	out, err = execute(t, "", "validate")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, `unsupported method "DELETE"`)
	assert.Contains(t, err.Error(), "1 of 2 namespace files are invalid")
}

func TestShowCommand(t *testing.T) {
	server := statusServer(t, http.StatusOK)
	workspace(t, server.URL)

	out, err := execute(t, "", "show", "create", "-m", "PROD", "-n", "shop")
	require.NoError(t, err, out)
	assert.Contains(t, out, "method: POST\n")
	assert.Contains(t, out, "url: "+server.URL+"/items\n")
	assert.Contains(t, out, "body:\n  name: x\n")
	assert.Contains(t, out, "- a\n")
	assert.Contains(t, out, maskedPassword)
	assert.NotContains(t, out, "hunter2")

	out, err = execute(t, "", "show", "create", "-m", "PROD", "-n", "shop", "--reveal")
	require.NoError(t, err)
	assert.Contains(t, out, "password: hunter2")
}

func TestHistoryCommand(t *testing.T) {
	server := statusServer(t, http.StatusOK)
	workspace(t, server.URL)

	_, err := execute(t, "", "history")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))

	_, err = execute(t, "", "send", "getItem", "-m", "PROD", "-n", "shop", "--history", "history.db")
	require.NoError(t, err)
	_, err = execute(t, "", "send", "listItems", "-m", "PROD", "-n", "shop", "--history", "history.db")
	require.NoError(t, err)

	out, err := execute(t, "", "history", "--history", "history.db", "-l", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "GET listItems  200 OK")
	assert.NotContains(t, out, "getItem")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	out, err := execute(t, "", "init", "-m", "PROD")
	require.NoError(t, err)
	assert.Contains(t, out, "Created: "+filepath.Join(dir, "settings.json"))

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"mode": "PROD"`)

	_, err = os.Stat(filepath.Join(dir, "requests", "example.json.example"))
	require.NoError(t, err)

	_, err = execute(t, "", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "", "init", "--force")
	require.NoError(t, err)

	// the example is valid once renamed
	require.NoError(t, os.Rename(
		filepath.Join(dir, "requests", "example.json.example"),
		filepath.Join(dir, "requests", "demo.json")))
	out, err = execute(t, "", "validate")
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ demo")
}

func TestImportCurlCommand(t *testing.T) {
	dir := workspace(t, "http://api.shop.test/v1")
	curlCmd := `curl -X PUT 'http://api.shop.test/v1/items/7?force=true' -H 'X-Trace: 1' -d '{"name": "y"}'`

	t.Run("print", func(t *testing.T) {
		out, err := execute(t, "", "import", "curl", curlCmd, "-m", "PROD", "-n", "shop")
		require.NoError(t, err, out)
		assert.Contains(t, out, `"put_items_7": {`)
		assert.Contains(t, out, `"endpoint": "items/7"`)
		assert.Contains(t, out, `"force": "true"`)
	})

	t.Run("write from stdin", func(t *testing.T) {
		out, err := execute(t, curlCmd, "import", "curl", "-", "--name", "restock", "--write", "-m", "PROD", "-n", "shop")
		require.NoError(t, err, out)
		assert.Contains(t, out, "Added PUT restock")

		data, err := os.ReadFile(filepath.Join(dir, "requests", "shop.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"restock": {`)

		out, err = execute(t, "", "list", "shop", "-m", "PROD")
		require.NoError(t, err, out)
		assert.Contains(t, out, "PUT restock => http://api.shop.test/v1/items/7")
	})

	t.Run("outside base url", func(t *testing.T) {
		_, err := execute(t, "", "import", "curl", "curl https://elsewhere.test/items", "-m", "PROD", "-n", "shop")
		require.Error(t, err)
		assert.Equal(t, ExitConfigError, exitCode(err))
	})

	t.Run("not a curl command", func(t *testing.T) {
		_, err := execute(t, "", "import", "curl", "curl -H 'Accept: x'", "-m", "PROD", "-n", "shop")
		require.Error(t, err)
		assert.Equal(t, ExitUsageError, exitCode(err))
	})
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "webreq version dev")
}
