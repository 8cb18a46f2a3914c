package testkit

// runner.go: Runner executes scenarios against an http.Handler.

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// Runner fires scenarios at Handler.
type Runner struct {
	Handler http.Handler

	// Transport, when set, is loaded with each scenario's mock steps. The
	// handler's outgoing clients must use it.
	Transport *MockTransport

	// Vars are substituted for ${NAME} in request URLs and header values.
	Vars map[string]string
}

// RunDir runs every scenario in dir against handler with no mocks or vars.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()
	(&Runner{Handler: handler}).RunDir(t, dir)
}

// Run executes a single scenario file as a subtest.
//
// Lifecycle per scenario:
//  1. Read the request body file (if set).
//  2. Load mock steps into the transport.
//  3. Fire the request through the handler.
//  4. Assert status code, then the response body (if a file is set).
//  5. Verify every isMock step was called.
func (r *Runner) Run(t *testing.T, path string) {
	t.Helper()

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", path, err)
	}
	t.Run(s.Name, func(t *testing.T) { r.run(t, s) })
}

// RunDir runs every scenario file in dir in file-name order. Scenarios may
// depend on state left by earlier ones.
func (r *Runner) RunDir(t *testing.T, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Error(err)
	}
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) { r.run(t, s) })
	}
}

func (r *Runner) run(t *testing.T, s *Scenario) {
	t.Helper()

	var reqBody io.Reader
	if p := s.RequestBodyPath(); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("[%s] read request file %q: %v", s.Name, p, err)
		}
		reqBody = bytes.NewReader(data)
	}

	mt := r.Transport
	if mt == nil {
		mt = NewMockTransport()
	}
	mt.Load(s)

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), r.expand(s.RequestURL), reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, r.expand(v))
	}

	rec := httptest.NewRecorder()
	r.Handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())
	if p := s.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] read response file %q: %v", s.Name, p, err)
		} else {
			AssertJSONBody(t, s, expected, rec.Body.Bytes())
		}
	}
	AssertMocksAllCalled(t, s, mt)
}

func (r *Runner) expand(v string) string {
	return os.Expand(v, func(name string) string {
		if val, ok := r.Vars[name]; ok {
			return val
		}
		return "${" + name + "}"
	})
}
