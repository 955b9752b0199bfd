package ingest

import (
	"context"

	"github.com/mpesadash/smsgateway/pkg/database"
	"github.com/mpesadash/smsgateway/pkg/parser"
)

//go:generate mockgen -destination interfaces_mocks_test.go -package ingest_test -source=interfaces.go

type Repo interface {
	AddMessage(ctx context.Context, message *database.Message) error
	GetMessageByGUID(ctx context.Context, guid string) (*database.Message, error)

	// CompleteMessage persists the final message status and, when tx is not
	// nil, the derived transaction in the same database transaction.
	CompleteMessage(ctx context.Context, message *database.Message, tx *database.Transaction) error
}

type Parser interface {
	Parse(text string) parser.Result
}
