package repo

import (
	"github.com/shopspring/decimal"

	"github.com/mpesadash/smsgateway/pkg/database"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type MessageFilter struct {
	// Search matches sender, body and guid.
	Search  string
	Status  database.MessageStatus
	Page    int
	PerPage int
}

type TransactionFilter struct {
	// Search matches code, counterparty, phone and the source message body.
	Search    string
	Direction database.Direction

	// ValidOnly keeps transactions that carry both a code and a positive
	// amount.
	ValidOnly bool

	Page    int
	PerPage int
}

type Page[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

type DirectionStats struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type Stats struct {
	TotalMessages     int64                                 `json:"total_messages"`
	PendingMessages   int64                                 `json:"pending_messages"`
	TotalTransactions int64                                 `json:"total_transactions"`
	ByDirection       map[database.Direction]DirectionStats `json:"by_direction"`
}

func normalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}

	if perPage < 1 {
		perPage = defaultPerPage
	}

	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return page, perPage
}
