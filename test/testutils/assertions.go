// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope is the decoded form of a success response
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// ErrorEnvelope is the decoded form of an error response
type ErrorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code      string                 `json:"code"`
		Message   string                 `json:"message"`
		Details   string                 `json:"details"`
		Metadata  map[string]interface{} `json:"metadata"`
		RequestID string                 `json:"request_id"`
	} `json:"error"`
}

// AssertSuccess checks the status and envelope of rec and decodes its data into dst
func AssertSuccess(t *testing.T, rec *httptest.ResponseRecorder, status int, dst interface{}) Envelope {
	t.Helper()

	require.Equal(t, status, rec.Code, "Unexpected status, body: %s", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "Response should be valid JSON")
	assert.True(t, env.Success, "Response should report success")

	if dst != nil {
		require.NoError(t, json.Unmarshal(env.Data, dst), "Data should decode")
	}
	return env
}

// AssertError checks the status and error code of rec
func AssertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) ErrorEnvelope {
	t.Helper()

	require.Equal(t, status, rec.Code, "Unexpected status, body: %s", rec.Body.String())

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "Response should be valid JSON")
	assert.False(t, env.Success)
	assert.Equal(t, code, env.Error.Code)
	return env
}
