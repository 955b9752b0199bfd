package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpesadash/smsgateway/pkg/database"
	"github.com/mpesadash/smsgateway/pkg/repo"
)

type stubQuery struct {
	messageFilter     repo.MessageFilter
	transactionFilter repo.TransactionFilter
}

func (s *stubQuery) ListMessages(
	_ context.Context,
	filter repo.MessageFilter,
) (*repo.Page[database.Message], error) {
	s.messageFilter = filter
	return &repo.Page[database.Message]{}, nil
}

func (s *stubQuery) ListTransactions(
	_ context.Context,
	filter repo.TransactionFilter,
) (*repo.Page[database.Transaction], error) {
	s.transactionFilter = filter
	return &repo.Page[database.Transaction]{}, nil
}

func (s *stubQuery) Stats(context.Context) (*repo.Stats, error) {
	return &repo.Stats{}, nil
}

func (s *stubQuery) LatestReceivedUnix(context.Context) (int64, error) {
	return 0, nil
}

func newTestRouter(t *testing.T) (*mux.Router, *stubQuery) {
	t.Helper()

	query := &stubQuery{}

	r := mux.NewRouter()
	NewHandler(nil, nil, query, "test-key", zerolog.Nop()).Register(r)

	return r, query
}

func TestTransactionsQueryParams(t *testing.T) {
	r, query := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/transactions?api_key=test-key&search=NAIVAS&direction=paid&valid_only=1&page=2&per_page=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "NAIVAS", query.transactionFilter.Search)
	assert.Equal(t, database.DirectionPaid, query.transactionFilter.Direction)
	assert.True(t, query.transactionFilter.ValidOnly)
	assert.Equal(t, 2, query.transactionFilter.Page)
	assert.Equal(t, 5, query.transactionFilter.PerPage)
}

func TestMessagesQueryParams(t *testing.T) {
	r, query := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/messages?api_key=test-key&search=lunch&status=failed", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "lunch", query.messageFilter.Search)
	assert.Equal(t, database.MessageStatusFailed, query.messageFilter.Status)
}

func TestRejectsMissingAPIKey(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
