package repo

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mpesadash/smsgateway/pkg/common"
	"github.com/mpesadash/smsgateway/pkg/database"
)

// Store is the gorm-backed persistence layer. The unique index on
// sms_messages.guid is the dedup enforcement point for concurrent webhook
// retries; callers translate ErrDuplicateMessage into an idempotent no-op.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) AddMessage(ctx context.Context, message *database.Message) error {
	err := s.db.WithContext(ctx).Create(message).Error
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(common.ErrDuplicateMessage, err)
	}

	return errors.WithStack(err)
}

func (s *Store) GetMessageByGUID(ctx context.Context, guid string) (*database.Message, error) {
	var message database.Message

	err := s.db.WithContext(ctx).Where("guid = ?", guid).First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &message, nil
}

// CompleteMessage flips the message status and, when tx is not nil, inserts
// the derived transaction in the same database transaction. Either both
// writes commit or neither does.
func (s *Store) CompleteMessage(
	ctx context.Context,
	message *database.Message,
	tx *database.Transaction,
) error {
	return s.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		if tx != nil {
			if err := dbTx.Create(tx).Error; err != nil {
				return errors.WithStack(err)
			}
		}

		err := dbTx.Model(&database.Message{}).
			Where("id = ?", message.ID).
			Updates(map[string]any{
				"status":       message.Status,
				"processed_at": message.ProcessedAt,
				"notes":        message.Notes,
			}).Error

		return errors.WithStack(err)
	})
}

func (s *Store) ListMessages(
	ctx context.Context,
	filter MessageFilter,
) (*Page[database.Message], error) {
	query := s.db.WithContext(ctx).Model(&database.Message{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("sender LIKE ? OR body LIKE ? OR guid LIKE ?", like, like, like)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	page, perPage := normalizePaging(filter.Page, filter.PerPage)

	var items []database.Message
	err := query.
		Order("received_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Page[database.Message]{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *Store) ListTransactions(
	ctx context.Context,
	filter TransactionFilter,
) (*Page[database.Transaction], error) {
	query := s.db.WithContext(ctx).Model(&database.Transaction{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.
			Joins("JOIN sms_messages ON sms_messages.id = mpesa_transactions.message_id").
			Where("mpesa_transactions.code LIKE ? OR mpesa_transactions.counterparty LIKE ? OR mpesa_transactions.phone LIKE ? OR sms_messages.body LIKE ?",
				like, like, like, like)
	}

	if filter.Direction != "" {
		query = query.Where("direction = ?", filter.Direction)
	}

	if filter.ValidOnly {
		query = query.Where("code <> '' AND amount > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	page, perPage := normalizePaging(filter.Page, filter.PerPage)

	var items []database.Transaction
	err := query.
		Order("mpesa_transactions.occurred_at DESC, mpesa_transactions.created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Page[database.Transaction]{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByDirection: map[database.Direction]DirectionStats{},
	}

	db := s.db.WithContext(ctx)

	if err := db.Model(&database.Message{}).Count(&stats.TotalMessages).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	err := db.Model(&database.Message{}).
		Where("status = ?", database.MessageStatusPending).
		Count(&stats.PendingMessages).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err = db.Model(&database.Transaction{}).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	var rows []struct {
		Direction database.Direction
		Count     int64
		Total     decimal.NullDecimal
	}

	err = db.Model(&database.Transaction{}).
		Select("direction, count(*) as count, sum(amount) as total").
		Group("direction").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for _, row := range rows {
		stats.ByDirection[row.Direction] = DirectionStats{
			Count: row.Count,
			Total: row.Total.Decimal,
		}
	}

	return stats, nil
}

// LatestReceivedUnix supports incremental fetches: only gateway messages
// newer than this are requested.
func (s *Store) LatestReceivedUnix(ctx context.Context) (int64, error) {
	var message database.Message

	err := s.db.WithContext(ctx).Order("received_at DESC").First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}

	if err != nil {
		return 0, errors.WithStack(err)
	}

	return message.ReceivedAt.Unix(), nil
}
