// Package ctx provides the request context every API handler receives.
//
// Instead of (http.ResponseWriter, *http.Request) a handler takes a single
// *Context:
//
//	func (c *TestController) Show(x *ctx.Context) {
//	    doc, err := c.tests.Find(x.Context(), x.Param("id"))
//	    if err != nil {
//	        x.Fail(err)
//	        return
//	    }
//	    x.JSON(http.StatusOK, doc)
//	}
//
//	router.Get("/testDetails/{id}", "tests.show", ctx.Wrap(c.Show))
package ctx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/diagnocare/pkg/auth"
	"github.com/shashiranjanraj/diagnocare/pkg/bind"
	"github.com/shashiranjanraj/diagnocare/pkg/logger"
	"github.com/shashiranjanraj/diagnocare/pkg/middleware"
	"github.com/shashiranjanraj/diagnocare/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // written status code (0 = not written yet)
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter ("/test/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value, or "".
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Claims returns the token claims attached by middleware.Authenticate.
func (c *Context) Claims() (*auth.Claims, bool) {
	return middleware.ClaimsFromCtx(c.R.Context())
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes the body into dest and runs validation. On failure it
// writes 400 (bad JSON) or 422 (validation) and returns false.
//
//	var in PriceInput
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// BindDocument decodes the body as a JSON object and checks that every key
// in required is present. Writes 400/422 and returns nil on failure.
func (c *Context) BindDocument(required ...string) map[string]any {
	doc, err := bind.Document(c.R)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return nil
	}
	if errs := validate.Document(doc, required...); validate.HasErrors(errs) {
		c.ValidationError(errs)
		return nil
	}
	return doc
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v with the given status.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	c.status = code
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

// OK writes v with 200.
func (c *Context) OK(v any) { c.JSON(http.StatusOK, v) }

// String writes a plain-text response.
func (c *Context) String(code int, format string, args ...any) {
	c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.W.WriteHeader(code)
	c.status = code
	fmt.Fprintf(c.W, format, args...)
}

// Error writes {"message": message}.
func (c *Context) Error(code int, message string) {
	c.JSON(code, messageBody{Message: message})
}

// ValidationError sends a 422 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, messageBody{
		Message: "Validation failed",
		Errors:  errs,
	})
}

// NotFound sends a 404, "Not found" unless a message is given.
func (c *Context) NotFound(message ...string) {
	msg := "Not found"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	c.Error(http.StatusNotFound, msg)
}

// Fail answers err using the registered error mappings. Unmapped errors are
// logged and answered 500 with the error text.
func (c *Context) Fail(err error) {
	if m, ok := lookup(err); ok {
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		if m.status >= http.StatusInternalServerError {
			logger.WithCtx(c.Context()).Error("request failed", "error", err)
		}
		c.Error(m.status, msg)
		return
	}

	logger.WithCtx(c.Context()).Error("request failed", "error", err)
	c.Error(http.StatusInternalServerError, err.Error())
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }

type messageBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ─── Error mapping ────────────────────────────────────────────────────────────

type mapping struct {
	target  error
	status  int
	message string
}

var (
	mu       sync.RWMutex
	mappings []mapping
)

// MapError makes Fail answer any error matching target (errors.Is) with
// status and message. An empty message passes the error text through.
// Later registrations win over earlier ones.
func MapError(target error, status int, message string) {
	mu.Lock()
	defer mu.Unlock()
	mappings = append(mappings, mapping{target: target, status: status, message: message})
}

func lookup(err error) (mapping, bool) {
	mu.RLock()
	defer mu.RUnlock()
	for i := len(mappings) - 1; i >= 0; i-- {
		if errors.Is(err, mappings[i].target) {
			return mappings[i], true
		}
	}
	return mapping{}, false
}
