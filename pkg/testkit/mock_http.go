package testkit

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// ─── MockTransport ────────────────────────────────────────────────────────────

// MockTransport implements http.RoundTripper. It matches outgoing requests
// against the current scenario's mock steps and answers with synthetic
// responses instead of touching the network.
//
// Hand it to whatever client the handler under test calls out with, then let
// the Runner load each scenario's steps:
//
//	mt := testkit.NewMockTransport()
//	stripeHTTP := &http.Client{Transport: mt}
//	runner := &testkit.Runner{Handler: h, Transport: mt}
type MockTransport struct {
	mu      sync.Mutex
	steps   []httpMockEntry
	require bool
}

type httpMockEntry struct {
	step      MockStep
	callCount int
}

// NewMockTransport returns a transport with no steps loaded.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Load replaces the active steps with the mock steps of s.
func (mt *MockTransport) Load(s *Scenario) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	mt.require = s.IsMockRequired
	mt.steps = mt.steps[:0]
	for _, step := range s.NetUtilMockStep {
		mt.steps = append(mt.steps, httpMockEntry{step: step})
	}
}

// RoundTrip intercepts the outgoing request and returns a synthetic response.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for i := range mt.steps {
		entry := &mt.steps[i]
		if !entry.step.IsMock || !urlMatches(req.URL.String(), entry.step.MatchURL) {
			continue
		}
		entry.callCount++
		return buildHTTPResponse(req, entry.step.ReturnData)
	}

	if mt.require {
		return nil, fmt.Errorf("testkit: unexpected outgoing HTTP call to %s: no matching mock step", req.URL)
	}

	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader(`{"error":"no mock configured"}`)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// AssertAllCalled returns one error per isMock step that was never hit.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, e := range mt.steps {
		if e.step.IsMock && e.callCount == 0 {
			errs = append(errs, fmt.Errorf("testkit: mock step (matchUrl=%q) was never called", e.step.MatchURL))
		}
	}
	return errs
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func urlMatches(candidate, pattern string) bool {
	if pattern == "" {
		return true
	}
	return strings.HasPrefix(candidate, pattern)
}

// buildHTTPResponse creates a synthetic *http.Response from MockReturnData.
func buildHTTPResponse(req *http.Request, rd MockReturnData) (*http.Response, error) {
	code := rd.StatusCode
	if code == 0 {
		code = http.StatusOK
	}

	var body []byte
	if rd.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(rd.Body)
		if err != nil {
			decoded, err = base64.RawStdEncoding.DecodeString(rd.Body)
			if err != nil {
				return nil, fmt.Errorf("testkit: base64 decode mock body: %w", err)
			}
		}
		body = decoded
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	return &http.Response{
		StatusCode:    code,
		Status:        fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
