package compliance

import (
	"fmt"

	"fairworkly/internal/awards"
	"fairworkly/pkg/domain"
)

// Rule is one stateless award check. Rules are independent - no rule's output
// depends on another's - but the orchestrator invokes them in the fixed order
// of the capability table so issue ordering stays reproducible per record.
//
// Evaluate assumes the record has already passed pre-validation; it must not
// be called for a gated record. The only error a rule returns is a
// configuration fault from the rate table (unsupported award/level), which is
// fatal to the run rather than a finding.
type Rule interface {
	Category() IssueCategory
	Evaluate(rec *PayRecord) ([]Issue, error)
}

// BaseRateRule checks the paid hourly rate against the tabulated rate for the
// record's classification level and employment category.
type BaseRateRule struct {
	provider *awards.Provider
}

func (r *BaseRateRule) Category() IssueCategory { return CategoryBaseRate }

func (r *BaseRateRule) Evaluate(rec *PayRecord) ([]Issue, error) {
	expected, err := r.provider.BaseRate(rec.Award, rec.Level, rec.Category)
	if err != nil {
		return nil, err
	}
	if rec.HourlyRate >= expected-RateTolerance {
		return nil, nil
	}
	impact := (expected - rec.HourlyRate) * rec.OrdinaryHours
	issue, err := NewEvidenceIssue(CategoryBaseRate, SeverityCritical, impact, Evidence{
		ActualValue:   rec.HourlyRate,
		ExpectedValue: expected,
		AffectedUnits: rec.OrdinaryHours,
		Unit:          UnitHour,
		ContextLabel:  fmt.Sprintf("%s level %d", rec.Award, rec.Level),
	})
	if err != nil {
		return nil, err
	}
	return []Issue{issue}, nil
}

// PenaltyRateRule checks the effective hourly rate paid for Saturday, Sunday,
// and public holiday hours against base rate x penalty multiplier. Day types
// with zero hours are skipped, not evaluated as passing. One Error per
// violated day type.
type PenaltyRateRule struct {
	provider *awards.Provider
}

func (r *PenaltyRateRule) Category() IssueCategory { return CategoryPenaltyRate }

func (r *PenaltyRateRule) Evaluate(rec *PayRecord) ([]Issue, error) {
	var issues []Issue
	for _, dayType := range domain.PenaltyDayTypes() {
		hours := rec.DayHours(dayType)
		if hours <= 0 {
			continue
		}
		base, err := r.provider.BaseRate(rec.Award, rec.Level, rec.Category)
		if err != nil {
			return nil, err
		}
		multiplier, err := r.provider.PenaltyMultiplier(rec.Award, dayType, rec.Category)
		if err != nil {
			return nil, err
		}
		expectedPerHour := base * multiplier
		actualPerHour := rec.DayPay(dayType) / hours
		if actualPerHour >= expectedPerHour-RateTolerance {
			continue
		}
		impact := (expectedPerHour - actualPerHour) * hours
		issue, err := NewEvidenceIssue(CategoryPenaltyRate, SeverityError, impact, Evidence{
			ActualValue:   RoundCents(actualPerHour),
			ExpectedValue: RoundCents(expectedPerHour),
			AffectedUnits: hours,
			Unit:          UnitHour,
			ContextLabel:  fmt.Sprintf("%s %s x%.2f", rec.Award, dayType, multiplier),
		})
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// CasualLoadingRule checks that casual employees are paid at least the
// tabulated casual rate, which is the source of truth for the loaded figure.
// Non-casual records are not evaluated.
type CasualLoadingRule struct {
	provider *awards.Provider
}

func (r *CasualLoadingRule) Category() IssueCategory { return CategoryCasualLoading }

func (r *CasualLoadingRule) Evaluate(rec *PayRecord) ([]Issue, error) {
	if !rec.Category.IsCasual() {
		return nil, nil
	}
	expected, err := r.provider.CasualRate(rec.Award, rec.Level)
	if err != nil {
		return nil, err
	}
	if rec.HourlyRate >= expected-RateTolerance {
		return nil, nil
	}
	impact := (expected - rec.HourlyRate) * rec.OrdinaryHours
	issue, err := NewEvidenceIssue(CategoryCasualLoading, SeverityCritical, impact, Evidence{
		ActualValue:   rec.HourlyRate,
		ExpectedValue: expected,
		AffectedUnits: rec.OrdinaryHours,
		Unit:          UnitHour,
		ContextLabel:  fmt.Sprintf("%s level %d casual (incl. %d%% loading)", rec.Award, rec.Level, int(awards.CasualLoading*100)),
	})
	if err != nil {
		return nil, err
	}
	return []Issue{issue}, nil
}

// SuperannuationRule checks employer contributions against the guarantee
// percentage of gross pay. Records with no gross pay are skipped entirely -
// no issue either way.
type SuperannuationRule struct{}

func (r *SuperannuationRule) Category() IssueCategory { return CategorySuperannuation }

func (r *SuperannuationRule) Evaluate(rec *PayRecord) ([]Issue, error) {
	if rec.GrossPay <= 0 {
		return nil, nil
	}
	expected := RoundCents(rec.GrossPay * SuperGuaranteeRate)
	if rec.SuperPaid >= expected-AmountTolerance {
		return nil, nil
	}
	impact := expected - rec.SuperPaid
	issue, err := NewEvidenceIssue(CategorySuperannuation, SeverityCritical, impact, Evidence{
		ActualValue:   rec.SuperPaid,
		ExpectedValue: expected,
		AffectedUnits: RoundCents(impact),
		Unit:          UnitCurrency,
		ContextLabel:  fmt.Sprintf("superannuation guarantee %d%%", int(SuperGuaranteeRate*100)),
	})
	if err != nil {
		return nil, err
	}
	return []Issue{issue}, nil
}
