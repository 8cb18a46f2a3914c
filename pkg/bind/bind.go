// Package bind decodes an HTTP request body into a struct or a schemaless
// document.
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/diagnocare/config"
	"github.com/shashiranjanraj/diagnocare/pkg/validate"
)

// ErrEmptyBody is returned when the request carries no JSON value.
var ErrEmptyBody = errors.New("bind: request body is empty")

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	if err := decode(r, dest); err != nil {
		return nil, err
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

// Document decodes r.Body into a JSON object. Whole numbers become int64 and
// other numbers float64, so counters stay integral in storage.
func Document(r *http.Request) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := decode(r, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("invalid JSON: body must be an object")
	}
	return normalizeMap(raw), nil
}

func decode(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	for k, v := range m {
		m[k] = normalize(v)
	}
	return m
}

func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]interface{}:
		return normalizeMap(t)
	case []interface{}:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	}
	return v
}

// Object is a JSON object field whose numbers decode like Document's.
type Object map[string]interface{}

func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*o = normalizeMap(raw)
	return nil
}
