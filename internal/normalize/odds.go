package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/raceintel/internal/models"
)

var (
	trailingSuffixRe = regexp.MustCompile(`\s*(ML|MTP|AM|PM)$`)
	fractionalRe     = regexp.MustCompile(`^(\d+)[/\-](\d+)$`)
	fractionalToRe   = regexp.MustCompile(`^(\d+)\s+TO\s+(\d+)$`)
	americanRe       = regexp.MustCompile(`^([+-])(\d+)$`)
	plainIntegerRe   = regexp.MustCompile(`^\d+$`)
)

var scratchedTokens = map[string]bool{
	"SCR": true, "SCRATCHED": true, "N/A": true, "NR": true, "VOID": true, "--": true, "": true,
}

var evenTokens = map[string]bool{
	"EVN": true, "EVEN": true, "EVS": true, "EVENS": true,
}

// Odds parses a raw odds string into a decimal result, following the
// fractional/decimal/American/EVENS/SCR rules. A plain integer n in
// [1,50] is treated as n/1. Returns nil for unparseable or scratched
// input, or when the value falls outside [1.01, 1000.0).
func Odds(raw string) *decimal.Decimal {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = trailingSuffixRe.ReplaceAllString(s, "")

	if scratchedTokens[s] {
		return nil
	}
	if evenTokens[s] {
		return clamp(decimal.NewFromFloat(2.0))
	}

	if m := fractionalRe.FindStringSubmatch(s); m != nil {
		return parseFraction(m[1], m[2])
	}
	if m := fractionalToRe.FindStringSubmatch(s); m != nil {
		return parseFraction(m[1], m[2])
	}
	if m := americanRe.FindStringSubmatch(s); m != nil {
		return parseAmerican(m[1], m[2])
	}
	if plainIntegerRe.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err == nil && n >= 1 && n <= 50 {
			return parseFraction(s, "1")
		}
	}

	decStr := strings.ReplaceAll(s, ",", ".")
	if d, err := decimal.NewFromString(decStr); err == nil {
		return clamp(d)
	}
	return nil
}

func parseFraction(numStr, denStr string) *decimal.Decimal {
	num, err1 := strconv.ParseFloat(numStr, 64)
	den, err2 := strconv.ParseFloat(denStr, 64)
	if err1 != nil || err2 != nil || den <= 0 {
		return nil
	}
	d := decimal.NewFromFloat(num/den + 1.0).Round(2)
	return clamp(d)
}

func parseAmerican(sign, valStr string) *decimal.Decimal {
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val == 0 {
		return nil
	}
	var d decimal.Decimal
	if sign == "+" {
		d = decimal.NewFromFloat(val/100 + 1.0).Round(2)
	} else {
		d = decimal.NewFromFloat(100/val + 1.0).Round(2)
	}
	return clamp(d)
}

// clamp rejects values outside the accepted odds range.
func clamp(d decimal.Decimal) *decimal.Decimal {
	if d.LessThan(models.MinValidOdds) || d.GreaterThanOrEqual(models.MaxValidOdds) {
		return nil
	}
	return &d
}
