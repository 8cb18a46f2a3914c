package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/diagnocare/pkg/validate"
)

type roleInput struct {
	Role  string  `json:"role" validate:"required,in=default,admin"`
	Note  string  `json:"note" validate:"nullable,in=a,b"`
	Price float64 `json:"price" validate:"required"`
}

func TestStruct(t *testing.T) {
	errs := validate.Struct(roleInput{Role: "admin", Price: 19.99})
	assert.False(t, validate.HasErrors(errs))

	errs = validate.Struct(&roleInput{})
	assert.Equal(t, "The role field is required.", errs["role"])
	assert.Equal(t, "The price field is required.", errs["price"])
	assert.NotContains(t, errs, "note")

	errs = validate.Struct(roleInput{Role: "root", Note: "c", Price: 1})
	assert.Equal(t, "The selected role is invalid.", errs["role"])
	assert.Equal(t, "The selected note is invalid.", errs["note"])
}

func TestDocument(t *testing.T) {
	doc := map[string]interface{}{
		"email": "ana@example.com",
		"name":  "   ",
		"slots": nil,
		"ok":    false,
	}
	errs := validate.Document(doc, "email", "name", "slots", "ok", "missing")

	assert.NotContains(t, errs, "email")
	assert.NotContains(t, errs, "ok")
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "slots")
	assert.Contains(t, errs, "missing")
}
