// Package testkit runs JSON-scenario REST API tests against an http.Handler.
//
// Each scenario is a JSON file that describes:
//   - The HTTP request to fire (method, URL, body file, headers)
//   - Expected HTTP status code
//   - Expected response body file (optional, for JSON diff assertion)
//   - Mock steps for outgoing HTTP calls (e.g. the payment processor)
//
// Scenario files live next to the *_test.go files:
//
//	testdata/
//	  register_user.json        ← scenario
//	  register_user_req.json    ← request body
//	  register_user_res.json    ← expected response body
//
// Example _test.go:
//
//	func TestAPI(t *testing.T) {
//	    k := kernel.New(deps)
//	    testkit.RunDir(t, k.Handler(), "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ─── Schema ───────────────────────────────────────────────────────────────────

// Scenario describes a single REST API test case loaded from a JSON file.
type Scenario struct {
	// Meta
	Name        string `json:"name"`
	Description string `json:"description"`

	// Request
	RequestMethod   string            `json:"requestMethod"`   // GET, POST, PUT, PATCH, DELETE
	RequestURL      string            `json:"requestUrl"`      // e.g. /testDetails/${TEST_ID}
	RequestFileName string            `json:"requestFileName"` // request body file, relative to the scenario
	Headers         map[string]string `json:"headers"`         // may reference ${VARS}

	// Response assertions
	ResponseFileName string `json:"responseFileName"`
	ExpectedCode     int    `json:"expectedCode"`

	// IsMockRequired fails any outgoing call that no step matches.
	IsMockRequired bool `json:"isMockRequired"`

	// Mock steps, matched in definition order.
	NetUtilMockStep []MockStep `json:"netUtilMockStep"`

	dir string // directory of the scenario file, set at load time
}

// MockStep describes one intercepted outgoing HTTP call.
type MockStep struct {
	// Method is "httprequest"; other values are rejected at load time.
	Method string `json:"method"`

	// IsMock: when false the step only documents a dependency and never
	// matches.
	IsMock bool `json:"isMock"`

	// MatchURL is a prefix of the outgoing URL. Empty matches anything.
	MatchURL string `json:"matchUrl"`

	ReturnData MockReturnData `json:"returnData"`
}

// MockReturnData is the synthetic response for a mock step.
type MockReturnData struct {
	// StatusCode defaults to 200.
	StatusCode int `json:"statusCode"`

	// Body is base64-encoded. Use "" for empty responses.
	Body string `json:"body"`
}

// ─── Loading ──────────────────────────────────────────────────────────────────

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	for i, step := range s.NetUtilMockStep {
		if step.Method != "httprequest" {
			return fmt.Errorf("netUtilMockStep[%d].method %q is not supported", i, step.Method)
		}
	}
	return nil
}

// RequestBodyPath returns the request body file resolved against the
// scenario's directory, or "".
func (s *Scenario) RequestBodyPath() string { return s.resolve(s.RequestFileName) }

// ResponseBodyPath returns the expected response file resolved against the
// scenario's directory, or "".
func (s *Scenario) ResponseBodyPath() string { return s.resolve(s.ResponseFileName) }

func (s *Scenario) resolve(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// LoadAllFromDir loads every scenario file in dir. Request and response
// body files (suffixed _req.json and _res.json) are skipped. Files that
// fail to parse are collected as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range entries {
		if isBodyFile(path) {
			continue
		}
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}

func isBodyFile(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range []string{"_req.json", "_res.json"} {
		if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}
