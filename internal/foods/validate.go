package foods

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxNameLength = 200
	maxGrams      = 10000

	dateLayout = "2006-01-02"
)

// ValidationError is a client-facing input error. Its message is safe to
// return verbatim in a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	// Optional sign, optional decimal point, optional exponent.
	numberPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Validate narrows a raw entry input into a ValidatedEntry. Rules run in a
// fixed order (name, protein, carbs, fats, date) and the first failure is
// the only error reported. An absent date defaults to now's UTC calendar day.
func Validate(in RawEntryInput, now time.Time) (*ValidatedEntry, error) {
	name, ok := in.Name.(string)
	if !ok {
		return nil, &ValidationError{Message: "Name is required"}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Message: "Name is required"}
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, &ValidationError{Message: "Name is too long (max 200 characters)"}
	}

	protein, err := parseMacronutrient(in.Protein, "protein")
	if err != nil {
		return nil, err
	}
	carbs, err := parseMacronutrient(in.Carbs, "carbs")
	if err != nil {
		return nil, err
	}
	fats, err := parseMacronutrient(in.Fats, "fats")
	if err != nil {
		return nil, err
	}

	var date string
	switch d := in.Date.(type) {
	case nil:
		date = now.UTC().Format(dateLayout)
	case string:
		if !ValidDate(d) {
			return nil, &ValidationError{Message: "Invalid date format. Use YYYY-MM-DD"}
		}
		date = d
	default:
		return nil, &ValidationError{Message: "Invalid date format. Use YYYY-MM-DD"}
	}

	return &ValidatedEntry{
		Name:    name,
		Protein: protein,
		Carbs:   carbs,
		Fats:    fats,
		Date:    date,
	}, nil
}

// parseMacronutrient narrows one grams field. Absence (nil or empty string)
// means zero, not an error. Numeric strings tolerate surrounding whitespace
// and scientific notation.
func parseMacronutrient(value any, label string) (float64, error) {
	var n float64

	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		n = v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		if !numberPattern.MatchString(s) {
			return 0, invalidValue(label)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, invalidValue(label)
		}
		// Out-of-range parses yield ±Inf and fall through to the range checks.
		n = parsed
	default:
		// Booleans, objects, arrays.
		return 0, invalidValue(label)
	}

	if math.IsNaN(n) {
		return 0, invalidValue(label)
	}
	if n < 0 {
		return 0, &ValidationError{Message: fmt.Sprintf("%s cannot be negative", label)}
	}
	if n > maxGrams {
		return 0, &ValidationError{Message: fmt.Sprintf("%s value is too large", label)}
	}
	return n, nil
}

func invalidValue(label string) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf("Invalid %s value", label)}
}

// ValidDate reports whether s is a zero-padded YYYY-MM-DD string naming a
// real Gregorian calendar date.
func ValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}

	year, _ := strconv.Atoi(s[0:4])
	month, _ := strconv.Atoi(s[5:7])
	day, _ := strconv.Atoi(s[8:10])

	if month < 1 || month > 12 {
		return false
	}
	return day >= 1 && day <= daysInMonth(year, month)
}

func daysInMonth(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// isLeapYear applies the Gregorian rule: divisible by 4, except centuries
// not divisible by 400.
func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
