package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-crm-sync/core"
	"github.com/goliatone/go-crm-sync/inbound"
	"github.com/goliatone/go-crm-sync/query"
)

const defaultWebhookBodyLimit int64 = 4 << 20 // 4 MiB

// BatchDispatcher hands a decoded webhook batch to the engine.
type BatchDispatcher interface {
	Dispatch(ctx context.Context, batch core.WebhookBatch) (inbound.BatchResult, error)
}

// ContactLister backs the contacts debug listing.
type ContactLister interface {
	Query(ctx context.Context, msg query.ListContactsMessage) ([]core.Contact, error)
}

// DealLister backs the deals debug listing.
type DealLister interface {
	Query(ctx context.Context, msg query.ListDealsMessage) ([]core.Deal, error)
}

// DealContactLister backs the contacts-for-deal debug listing.
type DealContactLister interface {
	Query(ctx context.Context, msg query.ListDealContactsMessage) ([]core.Contact, error)
}

// Handler is the HTTP surface of the ingestion service: the webhook intake
// plus a health check and the read-only debug listings.
type Handler struct {
	dispatcher   BatchDispatcher
	contacts     ContactLister
	deals        DealLister
	dealContacts DealContactLister
	logger       core.Logger
	listLimit    int
	bodyLimit    int64
}

type HandlerOption func(*Handler)

func WithLogger(logger core.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func WithListLimit(limit int) HandlerOption {
	return func(h *Handler) {
		if limit > 0 {
			h.listLimit = limit
		}
	}
}

func WithContactLister(lister ContactLister) HandlerOption {
	return func(h *Handler) {
		h.contacts = lister
	}
}

func WithDealLister(lister DealLister) HandlerOption {
	return func(h *Handler) {
		h.deals = lister
	}
}

func WithDealContactLister(lister DealContactLister) HandlerOption {
	return func(h *Handler) {
		h.dealContacts = lister
	}
}

func NewHandler(dispatcher BatchDispatcher, opts ...HandlerOption) (*Handler, error) {
	if dispatcher == nil {
		return nil, transportError(
			"transport: batch dispatcher is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			nil,
		)
	}
	handler := &Handler{
		dispatcher: dispatcher,
		logger:     glog.Nop(),
		listLimit:  core.DefaultConfig().Debug.ListLimit,
		bodyLimit:  defaultWebhookBodyLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}
	return handler, nil
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhooks", h.handleWebhooks)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /debug/contacts", h.handleListContacts)
	mux.HandleFunc("GET /debug/deals", h.handleListDeals)
	mux.HandleFunc("GET /debug/deals/{id}/contacts", h.handleListDealContacts)
	return mux
}

func (h *Handler) handleWebhooks(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.bodyLimit))
	if err != nil {
		h.writeError(w, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: read webhook body",
			http.StatusBadRequest,
			nil,
		))
		return
	}

	var batch core.WebhookBatch
	if err := json.Unmarshal(body, &batch); err != nil {
		h.writeError(w, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: decode webhook payload",
			http.StatusBadRequest,
			nil,
		))
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), batch)
	if err != nil {
		h.writeError(w, err)
		return
	}

	failed := result.Failed()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"accepted":  result.Accepted,
		"processed": len(result.Outcomes),
		"failed":    len(failed),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) handleListContacts(w http.ResponseWriter, r *http.Request) {
	if h.contacts == nil {
		h.writeError(w, listingUnavailableError("contacts"))
		return
	}
	contacts, err := h.contacts.Query(r.Context(), query.ListContactsMessage{
		Limit: h.requestLimit(r),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}

func (h *Handler) handleListDeals(w http.ResponseWriter, r *http.Request) {
	if h.deals == nil {
		h.writeError(w, listingUnavailableError("deals"))
		return
	}
	deals, err := h.deals.Query(r.Context(), query.ListDealsMessage{
		Limit: h.requestLimit(r),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"deals": deals})
}

func (h *Handler) handleListDealContacts(w http.ResponseWriter, r *http.Request) {
	if h.dealContacts == nil {
		h.writeError(w, listingUnavailableError("deal contacts"))
		return
	}
	dealID := strings.TrimSpace(r.PathValue("id"))
	if dealID == "" {
		h.writeError(w, transportError(
			"transport: deal id is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			nil,
		))
		return
	}
	contacts, err := h.dealContacts.Query(r.Context(), query.ListDealContactsMessage{
		DealID: dealID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"deal_id":  dealID,
		"contacts": contacts,
	})
}

func (h *Handler) requestLimit(r *http.Request) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return h.listLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return h.listLimit
	}
	return limit
}

type errorPayload struct {
	Message  string `json:"message"`
	Category string `json:"category"`
	TextCode string `json:"text_code"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	payload := errorPayload{
		Message:  err.Error(),
		Category: string(goerrors.CategoryInternal),
		TextCode: core.CRMSyncErrorInternal,
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		payload.Message = richErr.Message
		payload.Category = string(richErr.Category)
		payload.TextCode = richErr.TextCode
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "status", status, "error", err.Error())
	}
	h.writeJSON(w, status, map[string]any{"error": payload})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encode response", "error", err.Error())
	}
}

func listingUnavailableError(listing string) error {
	return transportError(
		"transport: "+listing+" listing is not configured",
		goerrors.CategoryNotFound,
		http.StatusNotFound,
		nil,
	)
}
