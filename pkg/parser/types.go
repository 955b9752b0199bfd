package parser

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mpesadash/smsgateway/pkg/database"
)

type Outcome string

const (
	// OutcomeMatched means a catalog rule matched and a draft was produced,
	// possibly with reduced confidence.
	OutcomeMatched = Outcome("matched")

	// OutcomeNoMatch means no catalog rule recognized the text at all.
	OutcomeNoMatch = Outcome("no_match")

	// OutcomeInvalidAmount means a rule matched but the amount string could
	// not be normalized to a decimal. No draft is produced.
	OutcomeInvalidAmount = Outcome("invalid_amount")
)

// Draft is the transaction candidate extracted from a message body. It is a
// plain value; persistence is the caller's concern.
type Draft struct {
	Direction    database.Direction
	Amount       decimal.Decimal
	Code         string
	Counterparty string
	Phone        string
	OccurredAt   *time.Time
}

type Result struct {
	Outcome    Outcome
	Rule       string
	Draft      *Draft
	Confidence float64

	// Missing lists the fields that degraded confidence.
	Missing []string

	// Err is set for OutcomeInvalidAmount and wraps common.ErrInvalidAmount.
	Err error
}

func (r Result) Matched() bool {
	return r.Outcome == OutcomeMatched
}
