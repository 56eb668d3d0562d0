package sets

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical, sortable date form every logged set is stored with.
const DateLayout = "2006-01-02"

var (
	ErrLoggedSetNotFound = errors.New("logged set not found")
	ErrLoggedSetExists   = errors.New("logged set already exists")
	ErrInvalidFilter     = errors.New("invalid date filter")
	ErrInvalidDate       = errors.New("invalid date")
)

var (
	// plain decimal, point or comma separated, as typed on a phone keypad
	weightPattern = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)
	repsPattern   = regexp.MustCompile(`^\d+$`)
)

// LoggedSet is every set done for one exercise, on one date, at one location.
// WeightLog holds one "<weight> kg x <reps>" line per saved set.
type LoggedSet struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	WeightLog   string `json:"weightLog"`
}

func (s LoggedSet) Entries() []string {
	if s.WeightLog == "" {
		return []string{}
	}
	return strings.Split(s.WeightLog, "\n")
}

func CanonicalDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate accepts YYYY-MM-DD (zero padding optional) or an RFC3339
// timestamp, and returns the canonical YYYY-MM-DD form. Timestamps keep the
// calendar date of their own offset.
func NormalizeDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	for _, layout := range []string{DateLayout, "2006-1-2"} {
		if t, err := time.Parse(layout, date); err == nil {
			return CanonicalDate(t), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return CanonicalDate(t), nil
	}
	return "", fmt.Errorf("%w: [%s]", ErrInvalidDate, date)
}

func WeightEntry(weight, reps string) string {
	return fmt.Sprintf("%s kg x %s", weight, reps)
}

// ValidateWeightAndReps checks the raw form values before they become a weight log line.
func ValidateWeightAndReps(weight, reps string) error {
	if !weightPattern.MatchString(weight) {
		return fmt.Errorf("weight [%s] is not a valid number", weight)
	}
	if !repsPattern.MatchString(reps) {
		return fmt.Errorf("reps [%s] is not a valid count", reps)
	}
	if r, err := strconv.Atoi(reps); err != nil || r <= 0 {
		return fmt.Errorf("reps [%s] is not a valid count", reps)
	}
	return nil
}

// Filter narrows a list to an inclusive date range. Both bounds or none must be set.
type Filter struct {
	From  *time.Time
	Until *time.Time
}

func (f Filter) IsSet() bool {
	return f.From != nil && f.Until != nil
}

func (f Filter) Validate() error {
	if (f.From == nil) != (f.Until == nil) {
		return fmt.Errorf("%w: both from and until must be set", ErrInvalidFilter)
	}
	if f.IsSet() && CanonicalDate(*f.From) > CanonicalDate(*f.Until) {
		return fmt.Errorf("%w: from is after until", ErrInvalidFilter)
	}
	return nil
}

// ParseFilter builds a Filter from the raw from/until query values; two empty values clear it.
func ParseFilter(from, until string) (Filter, error) {
	if from == "" && until == "" {
		return Filter{}, nil
	}

	var f Filter
	if from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: from [%s]", ErrInvalidFilter, from)
		}
		f.From = &t
	}
	if until != "" {
		t, err := time.Parse(DateLayout, until)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: until [%s]", ErrInvalidFilter, until)
		}
		f.Until = &t
	}

	return f, f.Validate()
}
