package common

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidPayload rejects webhook input that misses a body or guid.
	// Nothing is stored when it is returned.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrDuplicateMessage signals an already ingested guid. Ingestion treats
	// it as an idempotent no-op, not a failure.
	ErrDuplicateMessage = errors.New("duplicate message")

	ErrParseFailure  = errors.New("message could not be parsed")
	ErrInvalidAmount = errors.Wrap(ErrParseFailure, "invalid amount")

	ErrFetch = errors.New("gateway fetch failed")
)
