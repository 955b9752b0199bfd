package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/mpesadash/smsgateway/pkg/common"
	"github.com/mpesadash/smsgateway/pkg/database"
	"github.com/mpesadash/smsgateway/pkg/parser"
)

// Confidence below this is still stored, only flagged in the parse notes.
const minUsableConfidence = 0.5

type Service struct {
	repo   Repo
	parser Parser
}

func NewService(
	repo Repo,
	messageParser Parser,
) *Service {
	return &Service{
		repo:   repo,
		parser: messageParser,
	}
}

// Ingest validates and persists a single gateway payload, parses the body
// and attaches the resulting transaction. Re-delivery of an already stored
// guid is an idempotent no-op.
func (s *Service) Ingest(
	ctx context.Context,
	payload Payload,
) (*Result, error) {
	if strings.TrimSpace(payload.Message) == "" || strings.TrimSpace(payload.GUID) == "" {
		return nil, errors.Wrap(common.ErrInvalidPayload, "message and guid are required")
	}

	existing, err := s.repo.GetMessageByGUID(ctx, payload.GUID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return &Result{Message: existing, Duplicate: true}, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	message := &database.Message{
		ID:         uuid.NewString(),
		GUID:       payload.GUID,
		Sender:     payload.Number,
		Body:       payload.Message,
		ReceivedAt: payload.ReceivedAt(),
		Status:     database.MessageStatusPending,
		RawPayload: string(raw),
		CreatedAt:  time.Now().UTC(),
	}

	if err = s.repo.AddMessage(ctx, message); err != nil {
		if errors.Is(err, common.ErrDuplicateMessage) {
			// lost the unique-index race against a concurrent delivery of
			// the same guid
			existing, err = s.repo.GetMessageByGUID(ctx, payload.GUID)
			if err != nil {
				return nil, err
			}

			return &Result{Message: existing, Duplicate: true}, nil
		}

		return nil, err
	}

	return s.process(ctx, payload, message)
}

func (s *Service) process(
	ctx context.Context,
	payload Payload,
	message *database.Message,
) (*Result, error) {
	parsed := s.parser.Parse(payload.Message)

	now := time.Now().UTC()
	message.ProcessedAt = &now

	if !parsed.Matched() {
		message.Status = database.MessageStatusFailed
		message.Notes = failureNotes(payload, parsed)

		if err := s.repo.CompleteMessage(ctx, message, nil); err != nil {
			return nil, err
		}

		zerolog.Ctx(ctx).Info().
			Str("guid", payload.GUID).
			Str("outcome", string(parsed.Outcome)).
			Msg("message stored without transaction")

		return &Result{Message: message}, nil
	}

	tx := &database.Transaction{
		ID:           uuid.NewString(),
		MessageID:    message.ID,
		Direction:    parsed.Draft.Direction,
		Amount:       parsed.Draft.Amount,
		Counterparty: parsed.Draft.Counterparty,
		Phone:        parsed.Draft.Phone,
		Code:         parsed.Draft.Code,
		OccurredAt:   parsed.Draft.OccurredAt,
		Confidence:   parsed.Confidence,
		CreatedAt:    now,
	}

	if len(parsed.Missing) > 0 {
		tx.ParseNotes = fmt.Sprintf("missing fields: %s", strings.Join(parsed.Missing, ", "))
	}

	if parsed.Confidence < minUsableConfidence {
		tx.ParseNotes = strings.TrimPrefix(tx.ParseNotes+"; below usable confidence", "; ")

		zerolog.Ctx(ctx).Warn().
			Str("guid", payload.GUID).
			Float64("confidence", parsed.Confidence).
			Msg("transaction stored below usable confidence")
	}

	message.Status = database.MessageStatusProcessed
	message.Notes = fmt.Sprintf("parsed by rule %s", parsed.Rule)

	if err := s.repo.CompleteMessage(ctx, message, tx); err != nil {
		return nil, err
	}

	return &Result{Message: message, Transaction: tx}, nil
}

// IngestBatch feeds fetched payloads through Ingest one by one. Failures are
// isolated per item; everything ingested before a failure stays committed.
func (s *Service) IngestBatch(
	ctx context.Context,
	payloads []Payload,
) *BatchResult {
	batch := &BatchResult{}

	for _, payload := range payloads {
		res, err := s.Ingest(ctx, payload)
		if err != nil {
			batch.Errors = append(batch.Errors, errors.Wrapf(err, "guid %s", payload.GUID))

			zerolog.Ctx(ctx).Error().Err(err).
				Str("guid", payload.GUID).
				Msg("failed to ingest payload")

			continue
		}

		batch.Results = append(batch.Results, res)
	}

	batch.Duplicates = lo.CountBy(batch.Results, func(r *Result) bool {
		return r.Duplicate
	})
	batch.Stored = len(batch.Results) - batch.Duplicates
	batch.Parsed = lo.CountBy(batch.Results, func(r *Result) bool {
		return r.Transaction != nil
	})

	return batch
}

func failureNotes(payload Payload, parsed parser.Result) string {
	if parsed.Outcome == parser.OutcomeInvalidAmount {
		return fmt.Sprintf("invalid amount: %s", parsed.Err)
	}

	if !parser.IsProviderMessage(payload.Number, payload.Message) {
		return "no matching rule (not a provider message)"
	}

	return "no matching rule"
}
