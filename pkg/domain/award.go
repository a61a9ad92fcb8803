package domain

import (
	dErrors "fairworkly/pkg/domain-errors"
)

// AwardCode identifies a Modern Award pay instrument.
// Invariant: the value must be one of the supported awards.
type AwardCode string

// Supported awards. Rate tables are registered per award at startup.
const (
	AwardRetail      AwardCode = "retail"      // General Retail Industry Award (GRIA)
	AwardHospitality AwardCode = "hospitality" // Hospitality Industry (General) Award (HIGA)
	AwardClerks      AwardCode = "clerks"      // Clerks Private Sector Award
)

var validAwards = map[AwardCode]bool{
	AwardRetail:      true,
	AwardHospitality: true,
	AwardClerks:      true,
}

// ParseAwardCode constructs an AwardCode from external input.
func ParseAwardCode(s string) (AwardCode, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "award cannot be empty")
	}
	a := AwardCode(s)
	if !a.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported award: %s", s)
	}
	return a, nil
}

func (a AwardCode) IsValid() bool { return validAwards[a] }
func (a AwardCode) String() string { return string(a) }

// EmploymentCategory is the engagement type driving which rate column and
// which rules apply to a pay record.
type EmploymentCategory string

const (
	EmploymentPermanent EmploymentCategory = "permanent"
	EmploymentCasual    EmploymentCategory = "casual"
	EmploymentPartTime  EmploymentCategory = "part_time"
	EmploymentFixedTerm EmploymentCategory = "fixed_term"
)

var validEmploymentCategories = map[EmploymentCategory]bool{
	EmploymentPermanent: true,
	EmploymentCasual:    true,
	EmploymentPartTime:  true,
	EmploymentFixedTerm: true,
}

// ParseEmploymentCategory constructs an EmploymentCategory from external input.
// Common spreadsheet spellings are normalised by the parser before this runs.
func ParseEmploymentCategory(s string) (EmploymentCategory, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "employment category cannot be empty")
	}
	c := EmploymentCategory(s)
	if !validEmploymentCategories[c] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported employment category: %s", s)
	}
	return c, nil
}

func (c EmploymentCategory) String() string { return string(c) }

// IsCasual reports whether casual loading applies to this category.
func (c EmploymentCategory) IsCasual() bool { return c == EmploymentCasual }

// UsesPermanentRate reports whether the category is paid from the permanent
// rate column. Part-time and fixed-term employees are paid permanent rates
// pro rata.
func (c EmploymentCategory) UsesPermanentRate() bool { return c != EmploymentCasual }

// DayType classifies hours for penalty-rate purposes.
type DayType string

const (
	DaySaturday      DayType = "saturday"
	DaySunday        DayType = "sunday"
	DayPublicHoliday DayType = "public_holiday"
)

// PenaltyDayTypes lists day types in the fixed order penalty evaluation walks
// them, so issue output stays reproducible across runs.
func PenaltyDayTypes() []DayType {
	return []DayType{DaySaturday, DaySunday, DayPublicHoliday}
}

func (d DayType) String() string { return string(d) }
