package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/mauv0809/pricelist/internal/dataset"
	"github.com/mauv0809/pricelist/internal/pricelist"
	"github.com/mauv0809/pricelist/internal/views"
)

type Handler struct {
	store *dataset.Store
}

func New(store *dataset.Store) *Handler {
	return &Handler{store: store}
}

// Response is the JSON envelope for write endpoints.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
	Elapsed string `json:"elapsed,omitempty"`
}

// Health returns application health status
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Index renders the dashboard for the active dataset.
func (h *Handler) Index(c echo.Context) error {
	ds, ok := h.store.Snapshot()
	if !ok {
		return Render(c, http.StatusOK, views.Index(nil))
	}
	return Render(c, http.StatusOK, views.Index(&views.IndexData{
		Filename:   ds.Filename,
		Schema:     ds.Schema,
		UploadedAt: ds.UploadedAt,
		Summary:    pricelist.Summarize(ds.Records),
		Reconciled: ds.Reconciled,
	}))
}

// Render writes a templ component as the response body.
func Render(c echo.Context, status int, t templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := t.Render(c.Request().Context(), buf); err != nil {
		return err
	}
	return c.HTML(status, buf.String())
}
