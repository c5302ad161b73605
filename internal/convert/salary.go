package convert

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/odudnyk/cvscout/internal/exchange"
)

// ReferenceCurrency is the single currency every salary is normalized into.
// Dollar amounts are converted USD->UAH exactly once, at ingestion, so scores
// stay comparable across sources.
const ReferenceCurrency = "UAH"

const dollarCurrency = "USD"

var salaryPattern = regexp.MustCompile(`(\d+)(\$|грн)`)

// Salary extracts the amount and currency marker from a free-text salary
// mention ("50000 грн", "500 $") and normalizes it into ReferenceCurrency.
// Nil is returned for empty input or when no salary pattern is found. A
// failed exchange-rate lookup propagates as an error instead of being
// swallowed, so the caller can decide whether to drop the record or abort.
func Salary(ctx context.Context, text string, rates exchange.RateSource) (*float64, error) {
	stripped := stripSpaces(text)
	if stripped == "" {
		return nil, nil
	}

	m := salaryPattern.FindStringSubmatch(stripped)
	if m == nil {
		return nil, nil
	}

	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, nil
	}

	if m[2] == "$" {
		rate, err := rates.Rate(ctx, dollarCurrency, ReferenceCurrency)
		if err != nil {
			return nil, fmt.Errorf("normalizing salary %q: %w", text, err)
		}
		amount = Round2(amount * rate)
	}

	return &amount, nil
}

// stripSpaces drops every unicode space, including the non-breaking ones the
// sites put between digit groups.
func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
