package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/imroc/req/v3"
	"github.com/samber/lo"

	"github.com/mpesadash/smsgateway/pkg/common"
	"github.com/mpesadash/smsgateway/pkg/ingest"
)

type Fetcher struct {
	cl  *req.Client
	cfg Config
}

func NewFetcher(
	cfg Config,
	client *req.Client,
) *Fetcher {
	return &Fetcher{
		cl:  client,
		cfg: cfg,
	}
}

// Fetch pulls one page of gateway inbox messages and maps them to ingestion
// payloads, newest first. Transport failures, error statuses and undecodable
// bodies all surface as common.ErrFetch; nothing is ingested here.
func (f *Fetcher) Fetch(ctx context.Context, request Request) ([]ingest.Payload, error) {
	httpReq := f.cl.R().
		SetContext(ctx).
		SetQueryParam("apikey", f.cfg.APIKey)

	if request.OnlyUnread {
		httpReq.SetQueryParam("onlyunread", "yes")
	}

	if request.DeviceID != "" {
		httpReq.SetQueryParam("sIdentifiantPhone", request.DeviceID)
	}

	if request.AfterUnix > 0 {
		httpReq.SetQueryParam("after_timestamp_unix", fmt.Sprint(request.AfterUnix))
	}

	resp, err := httpReq.Get(f.cfg.BaseURL + "/getsms/")
	if err != nil {
		return nil, errors.Join(common.ErrFetch, err)
	}

	if resp.IsErrorState() {
		return nil, errors.Join(common.ErrFetch,
			errors.Newf("error response: %v and body %s", resp.StatusCode, resp.String()))
	}

	records, err := unwrapInbox(resp.Bytes())
	if err != nil {
		return nil, errors.Join(common.ErrFetch, err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].receivedUnix() > records[j].receivedUnix()
	})

	return lo.Map(records, func(record smsRecord, _ int) ingest.Payload {
		return record.toPayload()
	}), nil
}

func unwrapInbox(body []byte) ([]smsRecord, error) {
	trimmed := bytes.TrimSpace(body)

	if bytes.HasPrefix(trimmed, []byte("[")) {
		var records []smsRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, errors.WithStack(err)
		}

		return records, nil
	}

	var envelope inboxResponse
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, errors.WithStack(err)
	}

	if envelope.Result != nil {
		return envelope.Result.SMS, nil
	}

	return envelope.SMS, nil
}

func (r smsRecord) toPayload() ingest.Payload {
	ts := time.Unix(r.receivedUnix(), 0).UTC()

	guid := r.GUID
	if guid == "" {
		guid = r.GUIDMessage
	}

	return ingest.Payload{
		Date:         ts.Format("2006-01-02"),
		Hour:         ts.Format("15:04:05"),
		TimeReceived: ts.Format("2006-01-02 15:04:05"),
		Message:      r.Message,
		Number:       r.Number,
		GUID:         guid,
	}
}

// receivedUnix tries the gateway's timestamp fields from most to least
// reliable and falls back to the current time.
func (r smsRecord) receivedUnix() int64 {
	for _, candidate := range []string{string(r.TimestampUnix), string(r.Time), string(r.TS)} {
		if ts := parseUnix(candidate); ts > 0 {
			return ts
		}
	}

	received := string(r.TimeReceived)
	if ts := parseUnix(received); ts > 0 {
		return ts
	}

	// "YYYYMMDDHHMMSSmmm" style
	if len(received) >= 14 {
		if ts, err := time.Parse("20060102150405", received[:14]); err == nil {
			return ts.Unix()
		}
	}

	if r.Date != "" && r.Hour != "" {
		if ts, err := time.Parse("2006-01-02 15:04:05", r.Date+" "+r.Hour); err == nil {
			return ts.Unix()
		}
	}

	return time.Now().Unix()
}

func parseUnix(input string) int64 {
	input = strings.TrimSpace(input)
	if !isDigits(input) {
		return 0
	}

	switch len(input) {
	case 13: // milliseconds
		input = input[:10]
	case 10:
	default:
		return 0
	}

	ts, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0
	}

	return ts
}

func isDigits(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}

	return len(input) > 0
}
