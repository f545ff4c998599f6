package domain_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"mpin_backend/internal/blacklist"
	"mpin_backend/internal/mpin/domain"
	"mpin_backend/platform/apperr"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type evalCase struct {
	name    string
	code    string
	years   domain.ReferenceYears
	reasons []domain.Reason
}

var (
	cu     = domain.ReasonCommonlyUsed
	self   = domain.ReasonDOBSelf
	spouse = domain.ReasonDOBSpouse
	anniv  = domain.ReasonAnniversary
	family = domain.ReferenceYears{Self: "1985", Spouse: "1990", Anniversary: "2010"}
)

func runCases(t *testing.T, ev *domain.Evaluator, cases []evalCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict, err := ev.Evaluate(tc.code, tc.years)
			require.NoError(t, err)

			if diff := cmp.Diff(tc.reasons, verdict.Reasons); diff != "" {
				t.Fatalf("reasons mismatch (-want +got):\n%s", diff)
			}
			wantStrength := domain.StrengthStrong
			if len(tc.reasons) > 0 {
				wantStrength = domain.StrengthWeak
			}
			assert.Equal(t, wantStrength, verdict.Strength)
		})
	}
}

func TestEvaluateContractScenarios(t *testing.T) {
	ev := domain.NewEvaluator(blacklist.Default())

	runCases(t, ev, []evalCase{
		{"common code without years", "1234", domain.ReferenceYears{}, []domain.Reason{cu}},
		{"uncommon code without years", "5678", domain.ReferenceYears{}, []domain.Reason{}},
		{"common code equal to own birth year", "1998", domain.ReferenceYears{Self: "1998"}, []domain.Reason{cu, self}},
		{"no match against any year", "9876", family, []domain.Reason{}},
		{"own birth year only", "1985", domain.ReferenceYears{Self: "1985"}, []domain.Reason{self}},
	})
}

func TestEvaluateExactMode(t *testing.T) {
	ev := domain.NewEvaluator(blacklist.Default(), domain.WithMatchMode(domain.MatchExact))

	runCases(t, ev, []evalCase{
		{"spouse year", "2000", domain.ReferenceYears{Spouse: "2000"}, []domain.Reason{cu, spouse}},
		{"anniversary year", "1990", domain.ReferenceYears{Anniversary: "1990"}, []domain.Reason{cu, anniv}},
		{"common code with unrelated years", "4321", family, []domain.Reason{cu}},
		{"self year also common", "1122", domain.ReferenceYears{Self: "1122"}, []domain.Reason{cu, self}},
		{"spouse year also common", "1230", domain.ReferenceYears{Spouse: "1230"}, []domain.Reason{cu, spouse}},
		{"anniversary also common", "1999", domain.ReferenceYears{Anniversary: "1999"}, []domain.Reason{cu, anniv}},
		{"spouse among family", "1990", family, []domain.Reason{cu, spouse}},
		{"anniversary among family", "2010", family, []domain.Reason{cu, anniv}},
		{"all three years identical", "1985", domain.ReferenceYears{Self: "1985", Spouse: "1985", Anniversary: "1985"}, []domain.Reason{self, spouse, anniv}},
		{"six digit common", "123456", domain.ReferenceYears{}, []domain.Reason{cu}},
		{"six digit common with year", "654321", domain.ReferenceYears{Self: "2001"}, []domain.Reason{cu}},
		{"year embedded in six digits is not equality", "200120", domain.ReferenceYears{Self: "2001"}, []domain.Reason{cu}},
		{"repeated digits of spouse year", "999999", domain.ReferenceYears{Spouse: "1999"}, []domain.Reason{cu}},
		{"six digit with three years", "199819", domain.ReferenceYears{Self: "1998", Spouse: "1999", Anniversary: "2000"}, []domain.Reason{cu}},
		{"six digit not common", "200020", domain.ReferenceYears{Self: "1998", Spouse: "2000", Anniversary: "2001"}, []domain.Reason{}},
		{"six digit containing two years", "200121", domain.ReferenceYears{Self: "1998", Spouse: "2000", Anniversary: "2001"}, []domain.Reason{}},
		{"six digit reference year", "101010", domain.ReferenceYears{Anniversary: "101010"}, []domain.Reason{anniv}},
		{"leading zeros compared as text", "0007", domain.ReferenceYears{Self: "0007", Spouse: "7"}, []domain.Reason{cu, self}},
	})
}

func TestEvaluateContainsMode(t *testing.T) {
	ev := domain.NewEvaluator(blacklist.Default(), domain.WithMatchMode(domain.MatchContains))
	require.Equal(t, domain.MatchContains, ev.Mode())

	runCases(t, ev, []evalCase{
		{"exact equality still matches", "1985", domain.ReferenceYears{Self: "1985"}, []domain.Reason{self}},
		{"full year inside six digits", "200120", domain.ReferenceYears{Self: "2001"}, []domain.Reason{cu, self}},
		{"short year anywhere is a false positive", "999999", domain.ReferenceYears{Spouse: "1999"}, []domain.Reason{cu, spouse}},
		{"several years inside one code", "199819", domain.ReferenceYears{Self: "1998", Spouse: "1999", Anniversary: "2000"}, []domain.Reason{cu, self, spouse}},
		{"spouse year inside uncommon code", "200020", domain.ReferenceYears{Self: "1998", Spouse: "2000", Anniversary: "2001"}, []domain.Reason{spouse}},
		{"short spouse year and full anniversary", "200121", domain.ReferenceYears{Self: "1998", Spouse: "2000", Anniversary: "2001"}, []domain.Reason{spouse, anniv}},
		{"no overlap", "9876", family, []domain.Reason{}},
		{"long year drops only its first two characters", "560000", domain.ReferenceYears{Self: "19856"}, []domain.Reason{}},
		{"long year remainder inside code", "185600", domain.ReferenceYears{Self: "19856"}, []domain.Reason{self}},
		{"two character year kept whole", "123456", domain.ReferenceYears{Spouse: "45"}, []domain.Reason{cu, spouse}},
		{"absent years never match", "5678", domain.ReferenceYears{}, []domain.Reason{}},
	})
}

func TestEvaluateRejectsInvalidFormat(t *testing.T) {
	ev := domain.NewEvaluator(blacklist.Default())

	for _, code := range []string{"ab12", "123", "", "12345", "1234567", "12 4", "１２３４", "-123", "12.4", "0x12"} {
		t.Run(fmt.Sprintf("%q", code), func(t *testing.T) {
			verdict, err := ev.Evaluate(code, domain.ReferenceYears{Self: code})
			require.Error(t, err)
			assert.Empty(t, verdict.Reasons)
			assert.Empty(t, verdict.Strength)

			assert.True(t, errors.Is(err, domain.ErrInvalidFormat))
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Equal(t, domain.CodeInvalidFormat, apperr.GetCode(err))
		})
	}
}

func TestEvaluateWithoutBlacklist(t *testing.T) {
	ev := domain.NewEvaluator(nil)

	verdict, err := ev.Evaluate("1234", domain.ReferenceYears{})
	require.NoError(t, err)
	assert.Equal(t, domain.StrengthStrong, verdict.Strength)
	assert.Empty(t, verdict.Reasons)
}

func TestParseMatchMode(t *testing.T) {
	mode, err := domain.ParseMatchMode("")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchExact, mode)

	mode, err = domain.ParseMatchMode(" Contains ")
	require.NoError(t, err)
	assert.Equal(t, domain.MatchContains, mode)

	_, err = domain.ParseMatchMode("prefix")
	assert.Error(t, err)
}

func randomCode(r *rand.Rand) string {
	length := domain.ShortLength
	if r.IntN(2) == 1 {
		length = domain.LongLength
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = byte('0' + r.IntN(10))
	}
	return string(b)
}

func randomYear(r *rand.Rand) string {
	if r.IntN(3) == 0 {
		return ""
	}
	return fmt.Sprintf("%04d", 1900+r.IntN(130))
}

func TestEvaluateProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	list := blacklist.Default()

	for _, mode := range []domain.MatchMode{domain.MatchExact, domain.MatchContains} {
		ev := domain.NewEvaluator(list, domain.WithMatchMode(mode))

		for i := 0; i < 2000; i++ {
			code := randomCode(r)
			years := domain.ReferenceYears{Self: randomYear(r), Spouse: randomYear(r), Anniversary: randomYear(r)}

			first, err := ev.Evaluate(code, years)
			require.NoError(t, err)
			second, err := ev.Evaluate(code, years)
			require.NoError(t, err)
			require.Equal(t, first, second, "evaluation must be deterministic for %s", code)

			require.Equal(t, len(first.Reasons) > 0, first.Strength == domain.StrengthWeak)

			bare, err := ev.Evaluate(code, domain.ReferenceYears{})
			require.NoError(t, err)
			if list.Contains(code) {
				require.Equal(t, []domain.Reason{cu}, bare.Reasons)
			} else {
				require.Empty(t, bare.Reasons)
			}

			// Supplying the code itself as a year only adds reasons.
			matching := years
			matching.Spouse = code
			widened, err := ev.Evaluate(code, matching)
			require.NoError(t, err)
			require.Contains(t, widened.Reasons, spouse)
			for _, reason := range first.Reasons {
				if reason != spouse {
					require.Contains(t, widened.Reasons, reason)
				}
			}
		}
	}
}

func TestVerdictReasonStrings(t *testing.T) {
	v := domain.Verdict{Strength: domain.StrengthWeak, Reasons: []domain.Reason{cu, anniv}}
	assert.Equal(t, []string{"COMMONLY_USED", "DEMOGRAPHIC_ANNIVERSARY"}, v.ReasonStrings())
	assert.Equal(t, []string{}, domain.Verdict{Strength: domain.StrengthStrong, Reasons: []domain.Reason{}}.ReasonStrings())
}
