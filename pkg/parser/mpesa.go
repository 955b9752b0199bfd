package parser

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"

	"github.com/mpesadash/smsgateway/pkg/common"
)

// Penalty defaults. The exact weights are a tuning knob, not a contract;
// a fully extracted message always scores 1.0.
const (
	defaultRequiredPenalty = 0.25
	defaultOptionalPenalty = 0.05
)

type Parser struct {
	rules           []Rule
	requiredPenalty float64
	optionalPenalty float64
}

type Option func(*Parser)

func WithPenalties(required, optional float64) Option {
	return func(p *Parser) {
		p.requiredPenalty = required
		p.optionalPenalty = optional
	}
}

func WithCatalog(rules []Rule) Option {
	return func(p *Parser) {
		p.rules = rules
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		rules:           DefaultCatalog(),
		requiredPenalty: defaultRequiredPenalty,
		optionalPenalty: defaultOptionalPenalty,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse applies the catalog to a message body. It never panics on malformed
// input and never touches storage.
func (p *Parser) Parse(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Outcome: OutcomeNoMatch}
	}

	for _, rule := range p.rules {
		groups, ok := rule.match(text)
		if !ok {
			continue
		}

		// First matching rule wins, even when extraction only partially
		// succeeds. Falling through to a looser rule here would let
		// ambiguous text match twice.
		return p.extract(rule, groups)
	}

	return Result{Outcome: OutcomeNoMatch}
}

func (p *Parser) extract(rule Rule, groups map[string]string) Result {
	draft := &Draft{Direction: rule.Direction}

	var missing []string
	confidence := 1.0

	if raw, ok := groups["amount"]; ok {
		amount, err := normalizeAmount(raw)
		if err != nil {
			return Result{
				Outcome: OutcomeInvalidAmount,
				Rule:    rule.Name,
				Err: errors.Join(err, errors.Wrapf(common.ErrInvalidAmount,
					"rule %s groups %s", rule.Name, spew.Sdump(groups))),
			}
		}

		draft.Amount = amount
	} else {
		missing = append(missing, "amount")
		confidence -= p.requiredPenalty
	}

	if code, ok := groups["code"]; ok {
		draft.Code = strings.ToUpper(code)
	} else {
		missing = append(missing, "code")
		confidence -= p.requiredPenalty
	}

	if name, ok := groups["name"]; ok {
		draft.Counterparty = collapseSpaces(name)
	} else {
		missing = append(missing, "name")
		confidence -= p.optionalPenalty
	}

	if phone, ok := groups["phone"]; ok {
		draft.Phone = normalizePhone(phone)
	} else {
		missing = append(missing, "phone")
		confidence -= p.optionalPenalty
	}

	if occurredAt := parseOccurredAt(groups["date"], groups["time"]); occurredAt != nil {
		draft.OccurredAt = occurredAt
	} else {
		missing = append(missing, "datetime")
		confidence -= p.optionalPenalty
	}

	if confidence < 0 {
		confidence = 0
	}

	return Result{
		Outcome:    OutcomeMatched,
		Rule:       rule.Name,
		Draft:      draft,
		Confidence: confidence,
		Missing:    missing,
	}
}
