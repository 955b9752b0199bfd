package ingest_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpesadash/smsgateway/pkg/common"
	"github.com/mpesadash/smsgateway/pkg/database"
	"github.com/mpesadash/smsgateway/pkg/ingest"
	"github.com/mpesadash/smsgateway/pkg/parser"
)

func validPayload() ingest.Payload {
	return ingest.Payload{
		Date:         "2025-08-12",
		Hour:         "14:30:00",
		TimeReceived: "2025-08-12 14:30:05",
		Message:      "THC343MHYD Confirmed. You have received Ksh300.00 from JOHN DOE +254712345678 on 12/8/25 at 2:30 PM",
		Number:       "MPESA",
		GUID:         "guid-1",
	}
}

func TestIngestStoresMessageAndTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	srv := ingest.NewService(repo, parser.NewParser())

	repo.EXPECT().GetMessageByGUID(gomock.Any(), "guid-1").Return(nil, nil)

	repo.EXPECT().AddMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, message *database.Message) error {
			assert.Equal(t, "guid-1", message.GUID)
			assert.Equal(t, database.MessageStatusPending, message.Status)
			assert.Equal(t, "MPESA", message.Sender)
			assert.NotEmpty(t, message.RawPayload)
			return nil
		})

	repo.EXPECT().CompleteMessage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, message *database.Message, tx *database.Transaction) error {
			assert.Equal(t, database.MessageStatusProcessed, message.Status)
			require.NotNil(t, message.ProcessedAt)

			require.NotNil(t, tx)
			assert.Equal(t, message.ID, tx.MessageID)
			assert.Equal(t, database.DirectionReceived, tx.Direction)
			assert.Equal(t, "300.00", tx.Amount.StringFixed(2))
			assert.Equal(t, "THC343MHYD", tx.Code)
			assert.GreaterOrEqual(t, tx.Confidence, 0.9)
			return nil
		})

	res, err := srv.Ingest(context.TODO(), validPayload())
	require.NoError(t, err)

	assert.False(t, res.Duplicate)
	assert.NotNil(t, res.Transaction)
}

func TestIngestRejectsMissingGUID(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	srv := ingest.NewService(repo, parser.NewParser())

	payload := validPayload()
	payload.GUID = ""

	// no repo expectations: nothing may be stored
	_, err := srv.Ingest(context.TODO(), payload)
	assert.True(t, errors.Is(err, common.ErrInvalidPayload))
}

func TestIngestRejectsMissingBody(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	srv := ingest.NewService(repo, parser.NewParser())

	payload := validPayload()
	payload.Message = "   "

	_, err := srv.Ingest(context.TODO(), payload)
	assert.True(t, errors.Is(err, common.ErrInvalidPayload))
}

func TestIngestDuplicateIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	srv := ingest.NewService(repo, parser.NewParser())

	existing := &database.Message{ID: "m-1", GUID: "guid-1", Status: database.MessageStatusProcessed}

	repo.EXPECT().GetMessageByGUID(gomock.Any(), "guid-1").Return(existing, nil)

	res, err := srv.Ingest(context.TODO(), validPayload())
	require.NoError(t, err)

	assert.True(t, res.Duplicate)
	assert.Equal(t, existing, res.Message)
	assert.Nil(t, res.Transaction)
}

func TestIngestLostInsertRaceBecomesDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	srv := ingest.NewService(repo, parser.NewParser())

	existing := &database.Message{ID: "m-1", GUID: "guid-1"}

	gomock.InOrder(
		repo.EXPECT().GetMessageByGUID(gomock.Any(), "guid-1").Return(nil, nil),
		repo.EXPECT().AddMessage(gomock.Any(), gomock.Any()).Return(common.ErrDuplicateMessage),
		repo.EXPECT().GetMessageByGUID(gomock.Any(), "guid-1").Return(existing, nil),
	)

	res, err := srv.Ingest(context.TODO(), validPayload())
	require.NoError(t, err)

	assert.True(t, res.Duplicate)
	assert.Equal(t, existing, res.Message)
}

func TestIngestUnparsedMessageIsStoredAsFailed(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	srv := ingest.NewService(repo, parser.NewParser())

	payload := validPayload()
	payload.Message = "Hey, are we still meeting for lunch today?"
	payload.Number = "+254700000001"

	repo.EXPECT().GetMessageByGUID(gomock.Any(), "guid-1").Return(nil, nil)
	repo.EXPECT().AddMessage(gomock.Any(), gomock.Any()).Return(nil)

	repo.EXPECT().CompleteMessage(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, message *database.Message, _ *database.Transaction) error {
			assert.Equal(t, database.MessageStatusFailed, message.Status)
			assert.Contains(t, message.Notes, "no matching rule")
			return nil
		})

	res, err := srv.Ingest(context.TODO(), payload)
	require.NoError(t, err)

	assert.Nil(t, res.Transaction)
	assert.Equal(t, database.MessageStatusFailed, res.Message.Status)
}

func TestIngestInvalidAmountRecordsReason(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	mockParser := NewMockParser(ctrl)
	srv := ingest.NewService(repo, mockParser)

	repo.EXPECT().GetMessageByGUID(gomock.Any(), "guid-1").Return(nil, nil)
	repo.EXPECT().AddMessage(gomock.Any(), gomock.Any()).Return(nil)

	mockParser.EXPECT().Parse(gomock.Any()).Return(parser.Result{
		Outcome: parser.OutcomeInvalidAmount,
		Rule:    "paid_merchant",
		Err:     errors.Wrap(common.ErrInvalidAmount, "amount \",,,\""),
	})

	repo.EXPECT().CompleteMessage(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, message *database.Message, _ *database.Transaction) error {
			assert.Equal(t, database.MessageStatusFailed, message.Status)
			assert.Contains(t, message.Notes, "invalid amount")
			return nil
		})

	res, err := srv.Ingest(context.TODO(), validPayload())
	require.NoError(t, err)
	assert.Nil(t, res.Transaction)
}

func TestIngestLowConfidenceIsStoredAndFlagged(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	mockParser := NewMockParser(ctrl)
	srv := ingest.NewService(repo, mockParser)

	repo.EXPECT().GetMessageByGUID(gomock.Any(), "guid-1").Return(nil, nil)
	repo.EXPECT().AddMessage(gomock.Any(), gomock.Any()).Return(nil)

	mockParser.EXPECT().Parse(gomock.Any()).Return(parser.Result{
		Outcome:    parser.OutcomeMatched,
		Rule:       "received_business",
		Confidence: 0.45,
		Missing:    []string{"code", "phone"},
		Draft: &parser.Draft{
			Direction: database.DirectionReceived,
			Amount:    decimal.RequireFromString("10.00"),
		},
	})

	repo.EXPECT().CompleteMessage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, message *database.Message, tx *database.Transaction) error {
			assert.Equal(t, database.MessageStatusProcessed, message.Status)

			require.NotNil(t, tx)
			assert.Contains(t, tx.ParseNotes, "below usable confidence")
			assert.Contains(t, tx.ParseNotes, "missing fields: code, phone")
			return nil
		})

	res, err := srv.Ingest(context.TODO(), validPayload())
	require.NoError(t, err)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, 0.45, res.Transaction.Confidence)
}

func TestIngestBatchIsolatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	srv := ingest.NewService(repo, parser.NewParser())

	good := validPayload()

	duplicate := validPayload()
	duplicate.GUID = "guid-dup"

	broken := validPayload()
	broken.GUID = ""

	repo.EXPECT().GetMessageByGUID(gomock.Any(), "guid-1").Return(nil, nil)
	repo.EXPECT().AddMessage(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().CompleteMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	repo.EXPECT().GetMessageByGUID(gomock.Any(), "guid-dup").
		Return(&database.Message{ID: "m-2", GUID: "guid-dup"}, nil)

	batch := srv.IngestBatch(context.TODO(), []ingest.Payload{good, duplicate, broken})

	assert.Len(t, batch.Results, 2)
	assert.Len(t, batch.Errors, 1)
	assert.Equal(t, 1, batch.Stored)
	assert.Equal(t, 1, batch.Duplicates)
	assert.Equal(t, 1, batch.Parsed)
	assert.True(t, errors.Is(batch.Errors[0], common.ErrInvalidPayload))
}
