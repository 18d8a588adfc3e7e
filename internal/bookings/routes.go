package bookings

import (
	"github.com/go-chi/chi/v5"

	"github.com/harborline/harborline/internal/rbac"
)

// MountRoutes registers booking routes. View and edit permissions gate
// separate route groups; the wizard counts as editing.
func (h *Handler) MountRoutes(r chi.Router, mw rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAny(rbac.PermBookingsView))
		r.Get("/", h.list)
		r.Get("/search", h.search)
		r.Get("/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAll(rbac.PermBookingsEdit))
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
		r.Post("/{id}/ship", h.ship)
		r.Post("/{id}/deliver", h.deliver)
		r.Post("/{id}/cancel", h.cancel)
		r.Delete("/{id}", h.delete)

		r.Route("/wizard", func(r chi.Router) {
			r.Post("/", h.wizardStart)
			r.Get("/{wid}", h.wizardShow)
			r.Put("/{wid}/draft", h.wizardDraft)
			r.Post("/{wid}/next", h.wizardNext)
			r.Post("/{wid}/back", h.wizardBack)
			r.Get("/{wid}/search-quotations", h.wizardSearchQuotations)
			r.Post("/{wid}/select-quotation", h.wizardSelectQuotation)
			r.Post("/{wid}/search-rates", h.wizardSearchRates)
			r.Post("/{wid}/select-rate", h.wizardSelectRate)
			r.Post("/{wid}/deselect-rate", h.wizardDeselectRate)
			r.Post("/{wid}/submit", h.wizardSubmit)
			r.Delete("/{wid}", h.wizardDiscard)
		})
	})
}
