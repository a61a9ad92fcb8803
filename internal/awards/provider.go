package awards

import (
	"fairworkly/pkg/domain"
	dErrors "fairworkly/pkg/domain-errors"
)

// Provider is the read-only lookup the compliance rules evaluate against.
// Pure and side-effect free; all errors carry CodeConfiguration because a
// missing table entry is an operator fault, not a compliance finding.
type Provider struct {
	tables map[domain.AwardCode]*RateTable
}

// NewProvider registers the given tables. Later tables for the same award
// replace earlier ones.
func NewProvider(tables ...*RateTable) *Provider {
	m := make(map[domain.AwardCode]*RateTable, len(tables))
	for _, t := range tables {
		if t != nil {
			m[t.award] = t
		}
	}
	return &Provider{tables: m}
}

func (p *Provider) table(award domain.AwardCode) (*RateTable, error) {
	t, ok := p.tables[award]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeConfiguration, "no rate table registered for award %s", award)
	}
	return t, nil
}

func (p *Provider) levelRates(award domain.AwardCode, level int) (LevelRates, error) {
	if level < MinLevel || level > MaxLevel {
		return LevelRates{}, dErrors.Newf(dErrors.CodeConfiguration, "award %s: classification level %d outside supported range %d-%d", award, level, MinLevel, MaxLevel)
	}
	t, err := p.table(award)
	if err != nil {
		return LevelRates{}, err
	}
	rates, ok := t.levels[level]
	if !ok {
		return LevelRates{}, dErrors.Newf(dErrors.CodeConfiguration, "award %s has no rates for level %d", award, level)
	}
	return rates, nil
}

// PermanentRate returns the tabulated permanent hourly rate for a level.
// Part-time and fixed-term employees are paid from the same column.
func (p *Provider) PermanentRate(award domain.AwardCode, level int) (float64, error) {
	rates, err := p.levelRates(award, level)
	if err != nil {
		return 0, err
	}
	return rates.Permanent, nil
}

// CasualRate returns the tabulated casual hourly rate for a level. The casual
// loading is already baked into the published figure.
func (p *Provider) CasualRate(award domain.AwardCode, level int) (float64, error) {
	rates, err := p.levelRates(award, level)
	if err != nil {
		return 0, err
	}
	return rates.Casual, nil
}

// BaseRate returns the rate column matching the employment category.
func (p *Provider) BaseRate(award domain.AwardCode, level int, category domain.EmploymentCategory) (float64, error) {
	if category.IsCasual() {
		return p.CasualRate(award, level)
	}
	return p.PermanentRate(award, level)
}

// PenaltyMultiplier returns the multiplier applied to the base rate for hours
// worked on the given day type.
func (p *Provider) PenaltyMultiplier(award domain.AwardCode, dayType domain.DayType, category domain.EmploymentCategory) (float64, error) {
	t, err := p.table(award)
	if err != nil {
		return 0, err
	}
	rates, ok := t.penalties[dayType]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeConfiguration, "award %s has no penalty multiplier for %s", award, dayType)
	}
	if category.IsCasual() {
		return rates.Casual, nil
	}
	return rates.Permanent, nil
}
