package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// MPESA timestamps carry no zone. Africa/Nairobi does not observe DST, so a
// fixed offset is enough.
var nairobi = time.FixedZone("EAT", 3*60*60)

var (
	nonDigitRegex      = regexp.MustCompile(`\D`)
	providerBodyRegex  = regexp.MustCompile(`(?i)\bM-?PESA\b`)
	amountCleanerPairs = strings.NewReplacer("Ksh", "", "KSH", "", "ksh", "", ",", "", " ", "")
)

// IsProviderMessage is a cheap relevance check on sender id and body, used
// to annotate non-MPESA traffic before a full parse is attempted.
func IsProviderMessage(sender, body string) bool {
	if strings.Contains(strings.ToUpper(sender), "MPESA") {
		return true
	}

	return providerBodyRegex.MatchString(body)
}

// normalizeAmount strips currency markers and thousands separators, so
// "Ksh5,000.00" and "5000.00" produce equal decimals.
func normalizeAmount(raw string) (decimal.Decimal, error) {
	cleaned := amountCleanerPairs.Replace(raw)

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, errors.WithStack(err)
	}

	if !amount.IsPositive() {
		return decimal.Zero, errors.Newf("non-positive amount %s", amount)
	}

	return amount.Round(2), nil
}

// normalizePhone maps recognized Kenyan local formats to +254-prefixed form
// and leaves everything else untouched.
func normalizePhone(raw string) string {
	if raw == "" {
		return ""
	}

	digits := nonDigitRegex.ReplaceAllString(raw, "")

	switch {
	case strings.HasPrefix(digits, "0"): // 07XXXXXXXX
		return "+254" + digits[1:]
	case strings.HasPrefix(digits, "254"):
		return "+254" + digits[3:]
	case len(digits) == 9 && strings.HasPrefix(digits, "7"):
		return "+254" + digits
	}

	if strings.HasPrefix(raw, "+") {
		return raw
	}

	return "+" + digits
}

func parseOccurredAt(date, clock string) *time.Time {
	if date == "" || clock == "" {
		return nil
	}

	clock = strings.ToUpper(strings.ReplaceAll(clock, " ", ""))

	for _, layout := range []string{"2/1/06 3:04PM", "2/1/2006 3:04PM"} {
		if ts, err := time.ParseInLocation(layout, date+" "+clock, nairobi); err == nil {
			return &ts
		}
	}

	return nil
}

func collapseSpaces(input string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(input)), " ")
}
