package cqrs

import (
	"fmt"

	"github.com/Jpjss/family-finance/shared/errs"
)

const (
	MinYear = 1
	MaxYear = 9999
)

// ValidatePeriod reports ErrValidation for a month outside 1..12 or a year
// outside MinYear..MaxYear.
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", errs.ErrValidation)
	}
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: year must be between %d and %d", errs.ErrValidation, MinYear, MaxYear)
	}
	return nil
}
