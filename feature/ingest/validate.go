package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"flashdeck/core/apperr"
)

// moduleCodePattern accepts one or more uppercase letters followed by
// optional digits (e.g. PH1, MATH, W03).
var moduleCodePattern = regexp.MustCompile(`^[A-Z]+\d*$`)

// ValidateModuleCode checks a module code against the accepted pattern.
func ValidateModuleCode(code string) error {
	if !moduleCodePattern.MatchString(code) {
		return &apperr.InvalidFormatError{
			Value:    code,
			Expected: "letters followed by optional numbers, e.g. PH1",
		}
	}
	return nil
}

// ValidateSetOrderNumber parses a set order token and requires a finite
// positive number.
func ValidateSetOrderNumber(token string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) || n <= 0 {
		return 0, &apperr.InvalidFormatError{
			Value:    token,
			Expected: "a positive number",
		}
	}
	return n, nil
}

// splitOrderToken splits a composite "<moduleToken>.<numericOrder>" set order
// into its numeric suffix. The suffix is everything after the first dot so
// fractional orders like "PH1.2.5" round-trip through export and re-import.
func splitOrderToken(setOrder string) (string, error) {
	_, suffix, found := strings.Cut(setOrder, ".")
	if !found || suffix == "" {
		return "", &apperr.InvalidFormatError{
			Value:    setOrder,
			Expected: "a token of the form MODULE.ORDER, e.g. PH1.1",
		}
	}
	return suffix, nil
}
