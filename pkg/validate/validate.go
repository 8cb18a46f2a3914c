// Package validate runs the presence checks request payloads are held to.
//
// Struct rules live in the `validate` tag:
//
//	required     field must not be zero/empty
//	nullable     if empty, skip the remaining rules
//	in=a,b,c     value must be one of the listed items (must be the last rule)
//
//	type RoleInput struct {
//	    Role string `json:"role" validate:"required,in=default,admin"`
//	}
//
// Schemaless documents are checked with Document:
//
//	errs := validate.Document(doc, "email")
package validate

import (
	"fmt"
	"reflect"
	"strings"
)

// ─── Public API ───────────────────────────────────────────────────────────────

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := jsonFieldName(field)
		value := rv.Field(i)
		rules := splitRules(tag)

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}
		for _, rule := range rules {
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}
	return errs
}

// Document reports every key in required that is missing, null or blank
// in doc.
func Document(doc map[string]interface{}, required ...string) map[string]string {
	errs := make(map[string]string)
	for _, key := range required {
		v, ok := doc[key]
		if !ok || v == nil || isEmpty(reflect.ValueOf(v)) {
			errs[key] = requiredMessage(key)
		}
	}
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// ─── Rules ────────────────────────────────────────────────────────────────────

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return requiredMessage(field)
		}
	case "in":
		raw := fmt.Sprintf("%v", v.Interface())
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}
	return ""
}

func requiredMessage(field string) string {
	return fmt.Sprintf("The %s field is required.", field)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false // false is a value, not absence
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Invalid:
		return true
	}
	return false
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

// splitRules splits a tag on commas, except that everything after "in=" is
// that rule's parameter list.
func splitRules(tag string) []string {
	var rules []string
	for tag != "" {
		if strings.HasPrefix(tag, "in=") {
			return append(rules, tag)
		}
		head, rest, _ := strings.Cut(tag, ",")
		if head = strings.TrimSpace(head); head != "" {
			rules = append(rules, head)
		}
		tag = strings.TrimSpace(rest)
	}
	return rules
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}
