package remit

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseEuropeanAmount parses a European-formatted amount string.
// Format examples: "1.234,56" -> 1234.56, "40,00" -> 40, "100" -> 100.
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	return decimal.NewFromString(clean)
}
