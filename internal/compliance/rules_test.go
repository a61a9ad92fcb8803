package compliance

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"fairworkly/internal/awards"
	"fairworkly/pkg/domain"
)

// =============================================================================
// Rule Evaluation Test Suite
// =============================================================================
// Justification for unit tests: the four award rules carry the money math the
// whole product exists for. Tests pin the tolerance boundaries, the impact
// arithmetic, and the skip conditions.

type RulesSuite struct {
	suite.Suite
	provider *awards.Provider
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesSuite))
}

func (s *RulesSuite) SetupTest() {
	s.provider = awards.DefaultProvider()
}

// permanentL1 is a clean retail level 1 permanent record paid exactly the
// tabulated rate ($26.55).
func (s *RulesSuite) permanentL1() PayRecord {
	return PayRecord{
		Award:          domain.AwardRetail,
		Classification: "Level 1",
		Level:          1,
		Category:       domain.EmploymentPermanent,
		HourlyRate:     26.55,
		OrdinaryHours:  38,
		OrdinaryPay:    RoundCents(26.55 * 38),
		GrossPay:       RoundCents(26.55 * 38),
		SuperPaid:      RoundCents(26.55 * 38 * 0.12),
	}
}

func (s *RulesSuite) TestBaseRateRule() {
	rule := &BaseRateRule{provider: s.provider}

	s.Run("exact tabulated rate passes", func() {
		rec := s.permanentL1()
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Empty(issues)
	})

	s.Run("one cent under passes within tolerance", func() {
		rec := s.permanentL1()
		rec.HourlyRate = 26.54
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Empty(issues)
	})

	s.Run("two cents under emits critical", func() {
		rec := s.permanentL1()
		rec.HourlyRate = 26.53
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Require().Len(issues, 1)
		issue := issues[0]
		s.Equal(CategoryBaseRate, issue.Category)
		s.Equal(SeverityCritical, issue.Severity)
		s.InDelta((26.55-26.53)*38, issue.ImpactAmount, 0.001)
		s.Require().NotNil(issue.Evidence)
		s.Equal(26.53, issue.Evidence.ActualValue)
		s.Equal(26.55, issue.Evidence.ExpectedValue)
		s.Equal(float64(38), issue.Evidence.AffectedUnits)
		s.Equal(UnitHour, issue.Evidence.Unit)
		s.Equal("retail level 1", issue.Evidence.ContextLabel)
	})

	s.Run("casual compared against casual rate", func() {
		rec := s.permanentL1()
		rec.Category = domain.EmploymentCasual
		rec.HourlyRate = 33.19
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Empty(issues)
	})

	s.Run("unsupported level is a configuration error", func() {
		rec := s.permanentL1()
		rec.Level = 9
		_, err := rule.Evaluate(&rec)
		s.Error(err)
	})
}

func (s *RulesSuite) TestPenaltyRateRule() {
	rule := &PenaltyRateRule{provider: s.provider}

	s.Run("underpaid saturday emits error with impact", func() {
		// Expected Saturday pay: 26.55 x 1.25 x 8 = 265.50; paid 212.40.
		rec := s.permanentL1()
		rec.SaturdayHours = 8
		rec.SaturdayPay = 212.40

		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Require().Len(issues, 1)
		issue := issues[0]
		s.Equal(CategoryPenaltyRate, issue.Category)
		s.Equal(SeverityError, issue.Severity)
		s.InDelta(53.10, issue.ImpactAmount, 0.001)
		s.Require().NotNil(issue.Evidence)
		s.InDelta(26.55, issue.Evidence.ActualValue, 0.001)
		s.InDelta(33.19, issue.Evidence.ExpectedValue, 0.001)
		s.Equal(float64(8), issue.Evidence.AffectedUnits)
		s.Equal("retail saturday x1.25", issue.Evidence.ContextLabel)
	})

	s.Run("zero hours day types are skipped", func() {
		rec := s.permanentL1()
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Empty(issues)
	})

	s.Run("correctly paid penalty hours pass", func() {
		rec := s.permanentL1()
		rec.SundayHours = 6
		rec.SundayPay = RoundCents(26.55 * 1.50 * 6)
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Empty(issues)
	})

	s.Run("multiple violated day types emit one issue each", func() {
		rec := s.permanentL1()
		rec.SaturdayHours = 4
		rec.SaturdayPay = 50
		rec.PublicHolidayHours = 4
		rec.PublicHolidayPay = 50
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Require().Len(issues, 2)
		s.Equal("retail saturday x1.25", issues[0].Evidence.ContextLabel)
		s.Equal("retail public_holiday x2.25", issues[1].Evidence.ContextLabel)
	})
}

func (s *RulesSuite) TestCasualLoadingRule() {
	rule := &CasualLoadingRule{provider: s.provider}

	s.Run("permanent records are not evaluated", func() {
		rec := s.permanentL1()
		rec.HourlyRate = 1
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Empty(issues)
	})

	s.Run("casual paid permanent rate emits critical", func() {
		rec := s.permanentL1()
		rec.Category = domain.EmploymentCasual
		// Paid the unloaded permanent rate; casual table says 33.19.
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Require().Len(issues, 1)
		issue := issues[0]
		s.Equal(CategoryCasualLoading, issue.Category)
		s.Equal(SeverityCritical, issue.Severity)
		s.InDelta((33.19-26.55)*38, issue.ImpactAmount, 0.001)
		s.Equal(33.19, issue.Evidence.ExpectedValue)
	})

	s.Run("casual paid loaded rate passes", func() {
		rec := s.permanentL1()
		rec.Category = domain.EmploymentCasual
		rec.HourlyRate = 33.19
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Empty(issues)
	})
}

func (s *RulesSuite) TestSuperannuationRule() {
	rule := &SuperannuationRule{}

	s.Run("underpaid super emits critical with currency evidence", func() {
		rec := s.permanentL1()
		rec.GrossPay = 1000
		rec.SuperPaid = 100
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Require().Len(issues, 1)
		issue := issues[0]
		s.Equal(CategorySuperannuation, issue.Category)
		s.Equal(SeverityCritical, issue.Severity)
		s.InDelta(20, issue.ImpactAmount, 0.001)
		s.Equal(UnitCurrency, issue.Evidence.Unit)
		s.Equal(float64(120), issue.Evidence.ExpectedValue)
	})

	s.Run("within amount tolerance passes", func() {
		rec := s.permanentL1()
		rec.GrossPay = 1000
		rec.SuperPaid = 119.96
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Empty(issues)
	})

	s.Run("zero gross pay is skipped", func() {
		rec := s.permanentL1()
		rec.GrossPay = 0
		rec.SuperPaid = 0
		issues, err := rule.Evaluate(&rec)
		s.Require().NoError(err)
		s.Empty(issues)
	})
}
