package quotations

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/shared"
	"github.com/harborline/harborline/internal/summarize"
)

// Summarizer produces a short professional summary for a shipment. The
// call is a thin pass-through to an external text-generation service;
// failures are non-fatal and user-retriable.
type Summarizer interface {
	Summarize(ctx context.Context, req summarize.Request) (string, error)
}

// Handler wires HTTP endpoints for quotations and their pricing wizard.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	wizards    *WizardManager
	summarizer Summarizer
	validate   *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, wizards *WizardManager, summarizer Summarizer) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		wizards:    wizards,
		summarizer: summarizer,
		validate:   validator.New(),
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r.URL.Query())
	req := ListQuotationsRequest{
		Page:    page,
		PerPage: perPage,
		Term:    r.URL.Query().Get("q"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := QuotationStatus(raw)
		if !ValidStatus(status) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status filter")
			return
		}
		req.Status = &status
	}
	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list quotations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"total":      total,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.SearchByText(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("search quotations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	q, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	q, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !deleted {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "quotation does not exist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	var req summarize.Request
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	text, err := h.summarizer.Summarize(r.Context(), req)
	if err != nil {
		h.logger.Warn("summary generation failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"summary": text})
}

// Wizard endpoints.

func (h *Handler) wizardStart(w http.ResponseWriter, r *http.Request) {
	var wiz *Wizard
	var err error
	if quotationID := r.URL.Query().Get("quotation_id"); quotationID != "" {
		wiz, err = h.wizards.StartFromQuotation(r.Context(), quotationID)
	} else {
		wiz, err = h.wizards.Start(r.Context())
	}
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, wiz)
}

func (h *Handler) wizardShow(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.wizards.Get(chi.URLParam(r, "wid"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, wiz)
}

func (h *Handler) wizardDraft(w http.ResponseWriter, r *http.Request) {
	var patch DraftPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	wiz, err := h.wizards.UpdateDraft(chi.URLParam(r, "wid"), patch)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, wiz)
}

func (h *Handler) wizardNext(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.wizards.Next(r.Context(), chi.URLParam(r, "wid"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, wiz)
}

func (h *Handler) wizardBack(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.wizards.Back(r.Context(), chi.URLParam(r, "wid"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, wiz)
}

func (h *Handler) wizardSearchRates(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.wizards.SearchRates(r.Context(), chi.URLParam(r, "wid"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, wiz)
}

func (h *Handler) wizardSelectRate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RateID string `json:"rate_id" validate:"required"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	wiz, err := h.wizards.SelectRate(chi.URLParam(r, "wid"), body.RateID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, wiz)
}

func (h *Handler) wizardDeselectRate(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.wizards.DeselectRate(chi.URLParam(r, "wid"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, wiz)
}

func (h *Handler) wizardSubmit(w http.ResponseWriter, r *http.Request) {
	q, err := h.wizards.Submit(r.Context(), chi.URLParam(r, "wid"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) wizardDiscard(w http.ResponseWriter, r *http.Request) {
	h.wizards.Discard(chi.URLParam(r, "wid"))
	w.WriteHeader(http.StatusNoContent)
}
