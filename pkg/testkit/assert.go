package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code.
func AssertStatusCode(t *testing.T, s *Scenario, got int, body []byte) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got, "[%s] HTTP status code mismatch\nbody: %s", s.Name, string(body))
}

// AssertJSONBody compares expected and actual after decoding both, so key
// order and whitespace never matter.
func AssertJSONBody(t *testing.T, s *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal interface{}
	require.NoError(t, json.Unmarshal(expected, &expVal),
		"[%s] expected response file is not valid JSON", s.Name)

	if !assert.NoError(t, json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", s.Name, string(actual)) {
		return
	}
	assert.Equal(t, expVal, actVal, "[%s] response body mismatch", s.Name)
}

// AssertMocksAllCalled fails the test for every isMock step never triggered.
func AssertMocksAllCalled(t *testing.T, s *Scenario, mt *MockTransport) {
	t.Helper()
	for _, err := range mt.AssertAllCalled() {
		assert.NoError(t, err, "[%s]", s.Name)
	}
}
