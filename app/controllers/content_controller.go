package controllers

import (
	"github.com/shashiranjanraj/diagnocare/app/repositories"
	"github.com/shashiranjanraj/diagnocare/pkg/ctx"
)

// ContentController serves banners and recommendations.
type ContentController struct {
	banners         *repositories.Banners
	recommendations *repositories.Recommendations
}

func NewContentController(b *repositories.Banners, r *repositories.Recommendations) *ContentController {
	return &ContentController{banners: b, recommendations: r}
}

// Banners GET /banner
func (c *ContentController) Banners(x *ctx.Context) {
	docs, err := c.banners.All(x.Context())
	list(x, docs, err)
}

// StoreBanner POST /banner
func (c *ContentController) StoreBanner(x *ctx.Context) {
	doc, ok := fields(x)
	if !ok {
		return
	}
	id, err := c.banners.Create(x.Context(), doc)
	inserted(x, id, err)
}

// UpdateBanner PATCH /bannerUpdate/{id}
func (c *ContentController) UpdateBanner(x *ctx.Context) {
	doc, ok := fields(x)
	if !ok {
		return
	}
	res, err := c.banners.Update(x.Context(), x.Param("id"), doc)
	updated(x, res, err, "")
}

// Recommendations GET /recommend
func (c *ContentController) Recommendations(x *ctx.Context) {
	docs, err := c.recommendations.All(x.Context())
	list(x, docs, err)
}

