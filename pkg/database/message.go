package database

import (
	"time"

	"github.com/shopspring/decimal"
)

type MessageStatus string

const (
	MessageStatusPending   = MessageStatus("pending")
	MessageStatusProcessed = MessageStatus("processed")
	MessageStatusFailed    = MessageStatus("failed")
)

type Direction string

const (
	DirectionReceived = Direction("received")
	DirectionSent     = Direction("sent")
	DirectionPaid     = Direction("paid")
)

// Message is a raw inbound SMS as delivered by the gateway. Rows are
// immutable after insert except for Status, ProcessedAt and Notes.
type Message struct {
	ID          string `gorm:"primaryKey"`
	GUID        string `gorm:"column:guid;uniqueIndex"`
	Sender      string
	Body        string
	ReceivedAt  time.Time
	Status      MessageStatus
	ProcessedAt *time.Time
	Notes       string
	RawPayload  string
	CreatedAt   time.Time
}

func (Message) TableName() string {
	return "sms_messages"
}

// Transaction is the structured MPESA record derived from exactly one
// Message. MessageID carries a unique index so retries can never attach a
// second transaction to the same message.
type Transaction struct {
	ID           string `gorm:"primaryKey"`
	MessageID    string `gorm:"uniqueIndex"`
	Direction    Direction
	Amount       decimal.Decimal
	Counterparty string
	Phone        string
	Code         string
	OccurredAt   *time.Time
	Confidence   float64
	ParseNotes   string
	CreatedAt    time.Time
}

func (Transaction) TableName() string {
	return "mpesa_transactions"
}
