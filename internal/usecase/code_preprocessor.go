package usecase

import (
	"regexp"
	"strings"

	"github.com/dealscout/backend/internal/domain"
)

// Compiled regex patterns for code preprocessing
var (
	// Matches separators scanners and keyboards sneak into barcodes
	codeSeparatorPattern = regexp.MustCompile(`[\s\-.]`)

	// A usable identifier is all digits, UPC-E through GTIN-14 length
	digitsOnlyPattern = regexp.MustCompile(`^\d{6,14}$`)
)

// NormalizeCode cleans a scanned identifier before it is handed to any
// provider: strips separators, validates digit content, and folds an
// EAN-13 rendering of a UPC-A code (leading zero) down to its 12-digit
// form, since US catalog APIs index by UPC-A.
func NormalizeCode(raw string) (string, error) {
	code := codeSeparatorPattern.ReplaceAllString(strings.TrimSpace(raw), "")

	if !digitsOnlyPattern.MatchString(code) {
		return "", domain.ErrInvalidCode
	}

	if len(code) == 13 && strings.HasPrefix(code, "0") {
		code = code[1:]
	}

	return code, nil
}
