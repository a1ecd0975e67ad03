// Package pages serves the static marketing pages.
package pages

import (
	"net/http"

	"impulsa-web/internal/content"
	"impulsa-web/internal/web"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	cat    *content.Catalog
	layout web.Layout
}

func NewHandler(cat *content.Catalog) *Handler {
	return &Handler{cat: cat, layout: web.Layout{Brand: cat.Site.Brand}}
}

// Layout is shared with the other page handlers so every page carries the
// same brand.
func (h *Handler) Layout() web.Layout { return h.layout }

func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", h.layout.Page(c, "", h.cat.Site))
}

func (h *Handler) Services(c *gin.Context) {
	c.HTML(http.StatusOK, "services.html", h.layout.Page(c, "Servicios", h.cat.Services))
}
