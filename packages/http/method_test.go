package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in       string
		expected Method
		wantErr  bool
	}{
		{in: "GET", expected: MethodGet},
		{in: "POST", expected: MethodPost},
		{in: "PUT", expected: MethodPut},
		{in: "DELETE", wantErr: true},
		{in: "PATCH", wantErr: true},
		{in: "get", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseMethod(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, m.Valid())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
			assert.Equal(t, tt.in, m.String())
		})
	}
}

func TestMethod_SendsBody(t *testing.T) {
	assert.False(t, MethodGet.SendsBody())
	assert.True(t, MethodPost.SendsBody())
	assert.True(t, MethodPut.SendsBody())
}

func TestMethod_JSON(t *testing.T) {
	var m Method
	require.NoError(t, json.Unmarshal([]byte(`"PUT"`), &m))
	assert.Equal(t, MethodPut, m)

	assert.ErrorContains(t, json.Unmarshal([]byte(`"DELETE"`), &m), `unsupported method "DELETE"`)
	assert.Error(t, json.Unmarshal([]byte(`3`), &m))

	out, err := json.Marshal(MethodPost)
	require.NoError(t, err)
	assert.Equal(t, `"POST"`, string(out))
}
