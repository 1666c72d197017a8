package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/webreq/packages/core/dispatch"
	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/abdul-hamid-achik/webreq/packages/history"
	"github.com/abdul-hamid-achik/webreq/packages/http"
	"github.com/abdul-hamid-achik/webreq/packages/namespace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole() (*Console, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewConsole(WithWriter(&buf), WithNoColor(true)), &buf
}

func TestConsole_Menu(t *testing.T) {
	c, buf := newTestConsole()

	ns, err := namespace.Parse("shop", "PROD", []byte(`{
		"url": {"PROD": "https://api.test"},
		"common": {"method": "GET"},
		"requests": {
			"listItems": {"endpoint": "items", "parameters": {"q": "1"}},
			"getItem": {"endpoint": "items", "id": 42},
			"create": {"endpoint": "items", "method": "POST"}
		}
	}`))
	require.NoError(t, err)

	c.Menu(ns)

	want := "Requests for shop in PROD mode:\n\n" +
		" > 0\tGET listItems => https://api.test/items\n" +
		" > 1\tGET getItem => https://api.test/items/42\n" +
		" > 2\tPOST create => https://api.test/items\n" +
		"\n > q\tQUIT\n\n"
	assert.Equal(t, want, buf.String())
}

func TestConsole_NamespacePicker(t *testing.T) {
	c, buf := newTestConsole()
	c.NamespacePicker([]string{"billing", "shop"})
	assert.Equal(t, "Pick a namespace:\n\n > 0\tbilling\n > 1\tshop\n\n > q\tQUIT\n\n", buf.String())
}

func TestConsole_Result(t *testing.T) {
	c, buf := newTestConsole()
	c.Result(&dispatch.Result{
		Status:       404,
		Reason:       "Not Found",
		Elapsed:      5250 * time.Millisecond,
		Tier:         dispatch.TierWarning,
		ArtifactPath: "responses/shop/getItem_2024-05-01_13-04-05.json",
	})
	assert.Equal(t, "Response returned with 404 (Not Found) in 5250.0 ms\n"+
		"Response file: responses/shop/getItem_2024-05-01_13-04-05.json\n\n", buf.String())
}

func TestConsole_Sending(t *testing.T) {
	c, buf := newTestConsole()
	c.Sending("getItem", http.NewRequest(http.MethodGet, "https://api.test/items/42"))
	assert.Equal(t, "\nSending GET getItem request to: https://api.test/items/42...\n", buf.String())
}

func TestConsole_Error(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		c, buf := newTestConsole()
		c.Error(&errs.TransportError{Method: "GET", URL: "http://x/items", Err: errors.New("connection refused")})
		assert.Contains(t, buf.String(), "REQUEST FAILED WITH A CONNECTION ERROR:\nGET http://x/items: connection refused\n")
	})

	t.Run("config", func(t *testing.T) {
		c, buf := newTestConsole()
		c.Error(errs.Config("load namespace", "shop", "missing url for mode %q", "QA"))
		assert.Equal(t, "Error: load namespace \"shop\": missing url for mode \"QA\"\n", buf.String())
	})
}

func TestConsole_Prompts(t *testing.T) {
	c, buf := newTestConsole()
	c.Prompt("Request number")
	c.NotANumber()
	c.InvalidNumber("request")
	c.Warn("careful %s", "now")
	assert.Equal(t, "> Request number: Not a number\nInvalid request number\ncareful now\n", buf.String())
}

func TestConsole_History(t *testing.T) {
	c, buf := newTestConsole()
	c.History(nil)
	assert.Equal(t, "No dispatches recorded\n", buf.String())

	buf.Reset()
	c.History([]*history.Entry{{
		Namespace: "shop", Mode: "PROD", Request: "getItem", Method: "GET",
		Status: 200, Reason: "OK", ElapsedMs: 12.34, Artifact: "responses/shop/a.json",
		CreatedAt: time.Now(),
	}})
	assert.Contains(t, buf.String(), "shop/PROD  GET getItem  200 OK  12.3 ms\n    responses/shop/a.json\n")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	require.NoError(t, f.FormatResult(&dispatch.Result{
		Namespace:    "shop",
		Mode:         "PROD",
		Request:      "getItem",
		Method:       http.MethodGet,
		URL:          "https://api.test/items/42",
		Status:       200,
		Reason:       "OK",
		OK:           true,
		Elapsed:      1500 * time.Microsecond,
		Tier:         dispatch.TierNominal,
		ArtifactPath: "responses/shop/getItem.json",
		DecodeErr:    &errs.DecodeError{ContentType: "text/plain", Err: errors.New("bad")},
	}))

	var got JSONResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "GET", got.Method)
	assert.Equal(t, 1.5, got.ElapsedMs)
	assert.Equal(t, "nominal", got.Tier)
	assert.True(t, got.OK)
	assert.Equal(t, "decoding text/plain response body: bad", got.Warning)

	buf.Reset()
	require.NoError(t, f.FormatError(errors.New("boom"), "config"))
	assert.JSONEq(t, `{"error": "boom", "kind": "config"}`, buf.String())

	buf.Reset()
	require.NoError(t, f.FormatHistory(nil))
	assert.JSONEq(t, `[]`, buf.String())
}
