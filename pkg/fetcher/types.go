package fetcher

import (
	"bytes"
	"encoding/json"
)

// Config carries the gateway endpoint and credentials explicitly; nothing in
// this package reads the environment.
type Config struct {
	BaseURL string `env:"GATEWAY_BASE_URL" envDefault:"https://api.smsmobileapi.com"`
	APIKey  string `env:"GATEWAY_API_KEY"`
}

type Request struct {
	OnlyUnread bool
	DeviceID   string

	// AfterUnix limits the fetch to messages newer than the given unix
	// timestamp. Zero fetches the whole inbox page.
	AfterUnix int64
}

// The gateway wraps the inbox either as {result:{sms:[...]}}, {sms:[...]} or
// a bare array depending on endpoint version.
type inboxResponse struct {
	Result *inboxResult `json:"result"`
	SMS    []smsRecord  `json:"sms"`
}

type inboxResult struct {
	SMS []smsRecord `json:"sms"`
}

type smsRecord struct {
	Number      string `json:"number"`
	Message     string `json:"message"`
	GUID        string `json:"guid"`
	GUIDMessage string `json:"guid_message"`
	Date        string `json:"date"`
	Hour        string `json:"hour"`

	TimeReceived  flexString `json:"time_received"`
	TimestampUnix flexString `json:"timestamp_unix"`
	Time          flexString `json:"time"`
	TS            flexString `json:"ts"`
}

// flexString absorbs fields the gateway serializes inconsistently as either
// JSON strings or numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*f = flexString(s)
		return nil
	}

	*f = flexString(b)
	return nil
}
