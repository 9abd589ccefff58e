package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/devdocs/internal/service"
)

// CatalogHandler serves the public browse/read endpoints: applications,
// per-application changelogs, and the static content pages.
type CatalogHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// HandleListApplications returns all applications.
//
// HTTP: GET /api/applications
func (h *CatalogHandler) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.catalog.Applications(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// HandleGetApplication returns a single application.
//
// HTTP: GET /api/applications/{uid}
func (h *CatalogHandler) HandleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := h.catalog.Application(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// HandleApplicationChangelog returns the changelogs referencing an
// application, newest release first.
//
// HTTP: GET /api/applications/{uid}/changelog
func (h *CatalogHandler) HandleApplicationChangelog(w http.ResponseWriter, r *http.Request) {
	logs, err := h.catalog.ChangelogsForApplication(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// HandleHomepage returns the homepage content entry.
//
// HTTP: GET /api/homepage
func (h *CatalogHandler) HandleHomepage(w http.ResponseWriter, r *http.Request) {
	home, err := h.catalog.Homepage(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, home)
}

// HandleFAQs returns the active FAQ entries in display order.
//
// HTTP: GET /api/faqs
func (h *CatalogHandler) HandleFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.catalog.FAQs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, faqs)
}

// HandleSupportPage returns the support page content entry.
//
// HTTP: GET /api/support
func (h *CatalogHandler) HandleSupportPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalog.SupportPage(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
