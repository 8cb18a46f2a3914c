package controllers

import (
	"github.com/shashiranjanraj/diagnocare/app/services"
	"github.com/shashiranjanraj/diagnocare/pkg/ctx"
)

type TestController struct {
	catalog *services.CatalogService
}

func NewTestController(catalog *services.CatalogService) *TestController {
	return &TestController{catalog: catalog}
}

// Index GET /tests
func (c *TestController) Index(x *ctx.Context) {
	docs, err := c.catalog.All(x.Context())
	list(x, docs, err)
}

// Featured GET /featured-tests
func (c *TestController) Featured(x *ctx.Context) {
	docs, err := c.catalog.Featured(x.Context())
	list(x, docs, err)
}

// Show GET /testDetails/{id}
func (c *TestController) Show(x *ctx.Context) {
	doc, err := c.catalog.Find(x.Context(), x.Param("id"))
	document(x, doc, err)
}

// Store POST /tests
func (c *TestController) Store(x *ctx.Context) {
	doc, ok := fields(x)
	if !ok {
		return
	}
	id, err := c.catalog.Create(x.Context(), doc)
	inserted(x, id, err)
}

// Update PATCH /update-test/{id}
func (c *TestController) Update(x *ctx.Context) {
	doc, ok := fields(x)
	if !ok {
		return
	}
	res, err := c.catalog.Update(x.Context(), x.Param("id"), doc)
	updated(x, res, err, "Update not found")
}

// Destroy DELETE /test/{id}
func (c *TestController) Destroy(x *ctx.Context) {
	n, err := c.catalog.Delete(x.Context(), x.Param("id"))
	deleted(x, n, err)
}
