package domain

import (
	"errors"
	"fmt"
	"strings"

	"mpin_backend/platform/apperr"
)

// ErrInvalidFormat is wrapped by every format-gate failure.
var ErrInvalidFormat = errors.New("invalid MPIN format")

const msgInvalidFormat = "MPIN must be a 4-digit or 6-digit number"

// MatchMode selects how a candidate is compared against a reference year.
type MatchMode string

const (
	// MatchExact flags the candidate when it equals the full year or its last
	// two characters.
	MatchExact MatchMode = "exact"
	// MatchContains flags the candidate when the full year, or the year without
	// its first two characters, appears anywhere in it. Produces false
	// positives (a spouse year 1999 flags every code containing "99") and is
	// opt-in.
	MatchContains MatchMode = "contains"
)

// ParseMatchMode converts a configuration value into a MatchMode.
func ParseMatchMode(value string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(value))) {
	case MatchExact, "":
		return MatchExact, nil
	case MatchContains:
		return MatchContains, nil
	default:
		return "", fmt.Errorf("unknown match mode %q", value)
	}
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMatchMode sets the demographic comparison mode.
func WithMatchMode(mode MatchMode) Option {
	return func(e *Evaluator) {
		e.mode = mode
	}
}

// Evaluator classifies candidates against a blacklist and reference years.
// It holds no mutable state and may be shared across goroutines.
type Evaluator struct {
	list Blacklist
	mode MatchMode
}

// NewEvaluator returns an Evaluator using list for the commonly-used check.
// A nil list disables that check.
func NewEvaluator(list Blacklist, opts ...Option) *Evaluator {
	e := &Evaluator{list: list, mode: MatchExact}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode returns the configured match mode.
func (e *Evaluator) Mode() MatchMode {
	return e.mode
}

// Evaluate validates code and returns its verdict. The only error is an
// INVALID_FORMAT validation error, in which case no checks are run.
func (e *Evaluator) Evaluate(code string, years ReferenceYears) (Verdict, error) {
	if err := ValidateFormat(code); err != nil {
		return Verdict{}, err
	}

	reasons := make([]Reason, 0, 4)
	if e.list != nil && e.list.Contains(code) {
		reasons = append(reasons, ReasonCommonlyUsed)
	}
	if e.matchesYear(code, years.Self) {
		reasons = append(reasons, ReasonDOBSelf)
	}
	if e.matchesYear(code, years.Spouse) {
		reasons = append(reasons, ReasonDOBSpouse)
	}
	if e.matchesYear(code, years.Anniversary) {
		reasons = append(reasons, ReasonAnniversary)
	}

	strength := StrengthStrong
	if len(reasons) > 0 {
		strength = StrengthWeak
	}
	return Verdict{Strength: strength, Reasons: reasons}, nil
}

// matchesYear compares lexically; "0007" never collapses to 7.
func (e *Evaluator) matchesYear(code, year string) bool {
	if year == "" {
		return false
	}
	if e.mode == MatchContains {
		return strings.Contains(code, year) || strings.Contains(code, withoutCentury(year))
	}
	return code == year || code == lastTwo(year)
}

func lastTwo(s string) string {
	if len(s) <= 2 {
		return s
	}
	return s[len(s)-2:]
}

// withoutCentury drops the first two characters ("1985" -> "85", "19856" ->
// "856"). Values of two characters or fewer are kept whole so that an empty
// needle never matches every code.
func withoutCentury(s string) string {
	if len(s) <= 2 {
		return s
	}
	return s[2:]
}

// IsValidFormat reports whether code is 4 or 6 ASCII digits.
func IsValidFormat(code string) bool {
	if len(code) != ShortLength && len(code) != LongLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// ValidateFormat returns an INVALID_FORMAT validation error when code fails
// IsValidFormat.
func ValidateFormat(code string) error {
	if IsValidFormat(code) {
		return nil
	}
	return apperr.Wrap(apperr.KindValidation, msgInvalidFormat, ErrInvalidFormat).
		WithCode(CodeInvalidFormat).
		WithOp("mpin.Evaluate")
}
