package commission

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/LucasTruppel/comissao-project/internal/parser"
)

var ratePattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)

// ParseRate extracts a fractional commission rate from the free-text
// "Faixa de Comissão" field. Accepts formats like "10%", "Faixa 20%" or
// "30 VENDIDO 25 EMITIDO 20%": the first <number>% token wins. Text without
// a % marker never matches, even when a human reader would see a percentage
// in it. Returns ok=false for "-", empty or unmatched text, which is
// distinct from a zero rate.
func ParseRate(band string) (float64, bool) {
	text := strings.TrimSpace(band)
	if text == "" || text == "-" {
		return 0, false
	}

	text = parser.FoldText(text)
	match := ratePattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if err != nil || value < 0 || value > 100 {
		return 0, false
	}
	return value / 100.0, true
}
