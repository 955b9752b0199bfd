package parser

import (
	"regexp"

	"github.com/cockroachdb/errors"

	"github.com/mpesadash/smsgateway/pkg/database"
)

// Capture group fragments shared by all catalog rules. Group names are the
// contract between a rule and the field extraction in Parse.
const (
	amountRx = `(?P<amount>[\d,]+(?:\.\d{2})?)`
	phoneRx  = `(?P<phone>(?:\+?254|0)7\d{8})`
	dateRx   = `(?P<date>\d{1,2}/\d{1,2}/\d{2,4})`
	timeRx   = `(?P<time>\d{1,2}:\d{2}\s?(?:AM|PM))`
	codeRx   = `(?P<code>[A-Z0-9]{8,12})`
)

// \s* around punctuation tolerates "Confirmed.You" style bodies where the
// provider drops the space.
var (
	receivedPersonRegex = regexp.MustCompile(`(?i)` + codeRx +
		`\s*Confirmed\.?\s*You\s*have\s*received\s*Ksh\s*` + amountRx +
		`\s*from\s+(?P<name>.+?)\s+` + phoneRx +
		`\s*on\s*` + dateRx + `\s*at\s*` + timeRx)

	sentPersonRegex = regexp.MustCompile(`(?i)` + codeRx +
		`\s*Confirmed\.?\s*Ksh\s*` + amountRx +
		`\s*sent\s*to\s+(?P<name>.+?)\s+` + phoneRx +
		`\s*on\s*` + dateRx + `\s*at\s*` + timeRx)

	paidMerchantRegex = regexp.MustCompile(`(?i)` + codeRx +
		`\s*Confirmed\.?\s*Ksh\s*` + amountRx +
		`\s*paid\s*to\s+(?P<name>.+?)\s*on\s*` + dateRx + `\s*at\s*` + timeRx)

	receivedBusinessRegex = regexp.MustCompile(`(?i)` + codeRx +
		`\s*Confirmed\.?\s*You\s*have\s*received\s*Ksh\s*` + amountRx +
		`\s*from\s+(?P<name>.+?)\s*on\s*` + dateRx + `\s*at\s*` + timeRx)
)

// Rule pairs a label with a matching expression and, through the named
// capture groups, the transaction fields it extracts. A rule owns its
// complete expression; adding or removing one never changes how the others
// match.
type Rule struct {
	Name      string
	Direction database.Direction

	re *regexp.Regexp
}

// NewRule compiles a custom rule for catalogs assembled outside the default
// one. The pattern is expected to use the shared capture group names.
func NewRule(name string, direction database.Direction, pattern string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, errors.Wrapf(err, "rule %s", name)
	}

	return Rule{Name: name, Direction: direction, re: re}, nil
}

// match returns the named capture groups of the first occurrence, or false
// when the rule does not apply to the text.
func (r Rule) match(text string) (map[string]string, bool) {
	m := r.re.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	groups := map[string]string{}
	for i, name := range r.re.SubexpNames() {
		if name == "" || i >= len(m) {
			continue
		}

		if m[i] != "" {
			groups[name] = m[i]
		}
	}

	return groups, true
}

// DefaultCatalog is the ordered MPESA rule set. Order matters: rules are
// tried in sequence and the first match wins, so the specific person
// variants sit above the looser business fallback.
func DefaultCatalog() []Rule {
	return []Rule{
		{Name: "received_person", Direction: database.DirectionReceived, re: receivedPersonRegex},
		{Name: "sent_person", Direction: database.DirectionSent, re: sentPersonRegex},
		{Name: "paid_merchant", Direction: database.DirectionPaid, re: paidMerchantRegex},
		{Name: "received_business", Direction: database.DirectionReceived, re: receivedBusinessRegex},
	}
}
