// Package clients serves the client showcase.
package clients

import (
	"net/http"

	"impulsa-web/internal/app/notify"
	"impulsa-web/internal/app/showcase"
	"impulsa-web/internal/domain/clients"
	"impulsa-web/internal/logger"
	"impulsa-web/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgLoadFailed = "No se pudieron cargar los clientes"

type Handler struct {
	src    showcase.Source
	layout web.Layout
}

func NewHandler(src showcase.Source, layout web.Layout) *Handler {
	return &Handler{src: src, layout: layout}
}

// GET /clients
//
// A failed read still renders the page, empty, with an error notice.
func (h *Handler) Page(c *gin.Context) {
	sc, err := showcase.Load(c.Request.Context(), h.src)

	page := h.layout.Page(c, "Clientes", sc)
	if err != nil {
		logger.FromGin(c).Warn("load clients", zap.Error(err))
		page.Notes = []notify.Notification{{Level: notify.Error, Title: msgLoadFailed}}
	}
	c.HTML(http.StatusOK, "clients.html", page)
}

type CaseDTO struct {
	clients.Client
	Comparisons []clients.Comparison `json:"comparisons"`
	Highlights  []clients.Highlight  `json:"highlights"`
}

func toDTOs(list []showcase.Case) []CaseDTO {
	out := make([]CaseDTO, 0, len(list))
	for _, cs := range list {
		out = append(out, CaseDTO{Client: cs.Client, Comparisons: cs.Comparisons, Highlights: cs.Highlights})
	}
	return out
}

// GET /api/clients
func (h *Handler) List(c *gin.Context) {
	sc, err := showcase.Load(c.Request.Context(), h.src)
	if err != nil {
		logger.FromGin(c).Error("load clients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"featured": toDTOs(sc.Featured),
		"clients":  toDTOs(sc.All),
	})
}
