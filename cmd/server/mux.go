package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/mpesadash/smsgateway/pkg/common"
	"github.com/mpesadash/smsgateway/pkg/database"
	"github.com/mpesadash/smsgateway/pkg/fetcher"
	"github.com/mpesadash/smsgateway/pkg/ingest"
	"github.com/mpesadash/smsgateway/pkg/repo"
)

type Handler struct {
	ingester MessageIngester
	fetcher  InboxFetcher
	query    DataQuery
	apiKey   string
	logger   zerolog.Logger
}

func NewHandler(
	ingester MessageIngester,
	inboxFetcher InboxFetcher,
	query DataQuery,
	apiKey string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		ingester: ingester,
		fetcher:  inboxFetcher,
		query:    query,
		apiKey:   apiKey,
		logger:   logger,
	}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/webhook/sms", h.authorized(h.handleWebhook)).Methods(http.MethodPost)
	r.HandleFunc("/api/fetch", h.authorized(h.handleFetch)).Methods(http.MethodPost)
	r.HandleFunc("/api/fetch/auto", h.authorized(h.handleAutoFetch)).Methods(http.MethodPost)
	r.HandleFunc("/api/dashboard", h.authorized(h.handleDashboard)).Methods(http.MethodGet)
	r.HandleFunc("/api/messages", h.authorized(h.handleMessages)).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions", h.authorized(h.handleTransactions)).Methods(http.MethodGet)
}

func (h *Handler) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.apiKey != r.URL.Query().Get("api_key") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(h.logger.WithContext(r.Context())))
	}
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	b, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var payload ingest.Payload
	if err = json.Unmarshal(b, &payload); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.ingester.Ingest(r.Context(), payload)
	if err != nil {
		if errors.Is(err, common.ErrInvalidPayload) {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}

		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusOK, webhookResponse{
		Status:    "ok",
		Duplicate: result.Duplicate,
		Parsed:    result.Transaction != nil,
	})
}

func (h *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	h.fetchAndIngest(w, r, fetcher.Request{
		OnlyUnread: r.URL.Query().Get("onlyunread") == "yes",
		DeviceID:   r.URL.Query().Get("device_id"),
	})
}

// handleAutoFetch pulls only messages newer than the latest one stored.
func (h *Handler) handleAutoFetch(w http.ResponseWriter, r *http.Request) {
	latest, err := h.query.LatestReceivedUnix(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.fetchAndIngest(w, r, fetcher.Request{
		DeviceID:  r.URL.Query().Get("device_id"),
		AfterUnix: latest,
	})
}

func (h *Handler) fetchAndIngest(w http.ResponseWriter, r *http.Request, request fetcher.Request) {
	payloads, err := h.fetcher.Fetch(r.Context(), request)
	if err != nil {
		h.writeError(w, http.StatusBadGateway, err)
		return
	}

	batch := h.ingester.IngestBatch(r.Context(), payloads)

	h.writeJSON(w, http.StatusOK, fetchResponse{
		Fetched:    len(payloads),
		Stored:     batch.Stored,
		Duplicates: batch.Duplicates,
		Parsed:     batch.Parsed,
		Errors: lo.Map(batch.Errors, func(e error, _ int) string {
			return e.Error()
		}),
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.query.Stats(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := h.query.ListMessages(r.Context(), repo.MessageFilter{
		Search:  query.Get("search"),
		Status:  database.MessageStatus(query.Get("status")),
		Page:    atoi(query.Get("page")),
		PerPage: atoi(query.Get("per_page")),
	})
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusOK, page)
}

func (h *Handler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := h.query.ListTransactions(r.Context(), repo.TransactionFilter{
		Search:    query.Get("search"),
		Direction: database.Direction(query.Get("direction")),
		ValidOnly: query.Get("valid_only") == "1",
		Page:      atoi(query.Get("page")),
		PerPage:   atoi(query.Get("per_page")),
	})
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusOK, page)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("failed to write response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("request failed")
	}

	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func atoi(input string) int {
	v, _ := strconv.Atoi(input)
	return v
}
