package ingest

import (
	"time"

	"github.com/mpesadash/smsgateway/pkg/database"
)

// Payload mirrors the gateway webhook JSON body.
type Payload struct {
	Date         string `json:"date"`
	Hour         string `json:"hour"`
	TimeReceived string `json:"time_received"`
	Message      string `json:"message"`
	Number       string `json:"number"`
	GUID         string `json:"guid"`
}

// ReceivedAt recovers the delivery timestamp from whichever fields the
// gateway filled in. The full time_received wins over date+hour.
func (p Payload) ReceivedAt() time.Time {
	if ts, err := time.Parse("2006-01-02 15:04:05", p.TimeReceived); err == nil {
		return ts.UTC()
	}

	if ts, err := time.Parse("2006-01-02 15:04:05", p.Date+" "+p.Hour); err == nil {
		return ts.UTC()
	}

	return time.Now().UTC()
}

type Result struct {
	Message     *database.Message
	Transaction *database.Transaction

	// Duplicate is set when the guid was already ingested and nothing was
	// written.
	Duplicate bool
}

type BatchResult struct {
	Results []*Result
	Errors  []error

	Stored     int
	Duplicates int
	Parsed     int
}
