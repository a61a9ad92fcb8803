// Package awards provides static, read-only Modern Award rate tables: hourly
// rates per classification level and penalty multipliers per day type. Tables
// are registered at startup and never mutated, so the provider is safe for
// concurrent reads from any number of validation runs.
package awards

import (
	"fairworkly/pkg/domain"
	dErrors "fairworkly/pkg/domain-errors"
)

// Classification levels supported by every award table. A level outside this
// range is an operator configuration fault, never a compliance finding.
const (
	MinLevel = 1
	MaxLevel = 8
)

// CasualLoading is the standard premium casual employees receive over the
// permanent rate. The tabulated casual rates already bake this in; the
// constant exists for table construction and display labels only.
const CasualLoading = 0.25

// LevelRates carries the two tabulated hourly rates for one classification
// level. Casual is a separately published figure, not derived at lookup time.
type LevelRates struct {
	Permanent float64
	Casual    float64
}

// PenaltyRates carries the multipliers for one day type, split by employment
// category. Casual multipliers compound the casual loading per award rules.
type PenaltyRates struct {
	Permanent float64
	Casual    float64
}

// RateTable holds the published figures for one award instrument.
type RateTable struct {
	award     domain.AwardCode
	levels    map[int]LevelRates
	penalties map[domain.DayType]PenaltyRates
}

// NewRateTable constructs a rate table, rejecting levels outside the
// supported range and non-positive rates.
func NewRateTable(award domain.AwardCode, levels map[int]LevelRates, penalties map[domain.DayType]PenaltyRates) (*RateTable, error) {
	if !award.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeConfiguration, "rate table for unsupported award: %s", award)
	}
	if len(levels) == 0 {
		return nil, dErrors.Newf(dErrors.CodeConfiguration, "rate table for award %s has no levels", award)
	}
	for level, rates := range levels {
		if level < MinLevel || level > MaxLevel {
			return nil, dErrors.Newf(dErrors.CodeConfiguration, "award %s: level %d outside supported range %d-%d", award, level, MinLevel, MaxLevel)
		}
		if rates.Permanent <= 0 || rates.Casual <= 0 {
			return nil, dErrors.Newf(dErrors.CodeConfiguration, "award %s level %d: rates must be positive", award, level)
		}
	}
	for dayType, rates := range penalties {
		if rates.Permanent <= 0 || rates.Casual <= 0 {
			return nil, dErrors.Newf(dErrors.CodeConfiguration, "award %s %s: penalty multipliers must be positive", award, dayType)
		}
	}
	return &RateTable{award: award, levels: levels, penalties: penalties}, nil
}

// Award returns the award this table belongs to.
func (t *RateTable) Award() domain.AwardCode { return t.award }
