package domain

import (
	"math"
	"strconv"
	"strings"
)

// MaxAmount is the largest price or cost the decimal(10,2) columns hold.
const MaxAmount = 99999999.99

// ValidateAmount rejects a money value that is not finite, is above
// MaxAmount, or carries more than two decimal places. Sign checks are left
// to the caller.
func ValidateAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Validation(field + " must be a finite number")
	}
	if v > MaxAmount {
		return Validation(field + " must not exceed 99999999.99")
	}
	// The shortest representation that round-trips is what the client sent.
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if _, frac, ok := strings.Cut(s, "."); ok && len(frac) > 2 {
		return Validation(field + " must have at most 2 decimal places")
	}
	return nil
}
