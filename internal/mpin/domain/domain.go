// Package domain classifies 4- and 6-digit MPINs as STRONG or WEAK.
// This file defines the public API of the mpin bounded context.
package domain

// Strength is the binary classification of a candidate MPIN.
type Strength string

const (
	StrengthStrong Strength = "STRONG"
	StrengthWeak   Strength = "WEAK"
)

// Reason explains why a candidate was classified as WEAK.
type Reason string

const (
	ReasonCommonlyUsed Reason = "COMMONLY_USED"
	ReasonDOBSelf      Reason = "DEMOGRAPHIC_DOB_SELF"
	ReasonDOBSpouse    Reason = "DEMOGRAPHIC_DOB_SPOUSE"
	ReasonAnniversary  Reason = "DEMOGRAPHIC_ANNIVERSARY"
)

// CodeInvalidFormat is the machine-readable code of the format-gate error.
const CodeInvalidFormat = "INVALID_FORMAT"

// Accepted MPIN lengths.
const (
	ShortLength = 4
	LongLength  = 6
)

// ReferenceYears holds the optional demographic dates a candidate is compared
// against. An empty field is absent and never contributes a reason.
type ReferenceYears struct {
	Self        string
	Spouse      string
	Anniversary string
}

// Verdict is the result of one evaluation. Reasons are ordered by check:
// commonly-used, self, spouse, anniversary.
type Verdict struct {
	Strength Strength
	Reasons  []Reason
}

// ReasonStrings returns the reasons as plain strings.
func (v Verdict) ReasonStrings() []string {
	out := make([]string, len(v.Reasons))
	for i, r := range v.Reasons {
		out[i] = string(r)
	}
	return out
}

// Blacklist answers whether a code is a commonly used MPIN.
// Implementations must be safe for concurrent reads.
type Blacklist interface {
	Contains(code string) bool
}
