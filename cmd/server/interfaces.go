package main

import (
	"context"

	"github.com/mpesadash/smsgateway/pkg/database"
	"github.com/mpesadash/smsgateway/pkg/fetcher"
	"github.com/mpesadash/smsgateway/pkg/ingest"
	"github.com/mpesadash/smsgateway/pkg/repo"
)

type MessageIngester interface {
	Ingest(
		ctx context.Context,
		payload ingest.Payload,
	) (*ingest.Result, error)
	IngestBatch(
		ctx context.Context,
		payloads []ingest.Payload,
	) *ingest.BatchResult
}

type InboxFetcher interface {
	Fetch(
		ctx context.Context,
		request fetcher.Request,
	) ([]ingest.Payload, error)
}

type DataQuery interface {
	ListMessages(
		ctx context.Context,
		filter repo.MessageFilter,
	) (*repo.Page[database.Message], error)
	ListTransactions(
		ctx context.Context,
		filter repo.TransactionFilter,
	) (*repo.Page[database.Transaction], error)
	Stats(ctx context.Context) (*repo.Stats, error)
	LatestReceivedUnix(ctx context.Context) (int64, error)
}
