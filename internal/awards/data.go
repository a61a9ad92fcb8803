package awards

import "fairworkly/pkg/domain"

// Published adult hourly rates, FY2024-25. Casual columns are the separately
// published loaded figures, not derived at lookup time.

// retailTable covers the General Retail Industry Award (GRIA), levels 1-8.
func retailTable() *RateTable {
	t, err := NewRateTable(domain.AwardRetail,
		map[int]LevelRates{
			1: {Permanent: 26.55, Casual: 33.19},
			2: {Permanent: 27.17, Casual: 33.96},
			3: {Permanent: 27.59, Casual: 34.49},
			4: {Permanent: 28.14, Casual: 35.18},
			5: {Permanent: 29.31, Casual: 36.64},
			6: {Permanent: 29.73, Casual: 37.16},
			7: {Permanent: 31.21, Casual: 39.01},
			8: {Permanent: 32.47, Casual: 40.59},
		},
		map[domain.DayType]PenaltyRates{
			domain.DaySaturday:      {Permanent: 1.25, Casual: 1.50},
			domain.DaySunday:        {Permanent: 1.50, Casual: 1.75},
			domain.DayPublicHoliday: {Permanent: 2.25, Casual: 2.50},
		},
	)
	if err != nil {
		panic(err) // static data, validated at init
	}
	return t
}

// hospitalityTable covers the Hospitality Industry (General) Award (HIGA),
// levels 1-6. Levels 7-8 exist in the award for managerial streams but carry
// no hourly table here; lookups for them fail as configuration errors.
func hospitalityTable() *RateTable {
	t, err := NewRateTable(domain.AwardHospitality,
		map[int]LevelRates{
			1: {Permanent: 24.98, Casual: 31.23},
			2: {Permanent: 25.85, Casual: 32.31},
			3: {Permanent: 26.71, Casual: 33.39},
			4: {Permanent: 28.21, Casual: 35.26},
			5: {Permanent: 29.98, Casual: 37.48},
			6: {Permanent: 30.79, Casual: 38.49},
		},
		map[domain.DayType]PenaltyRates{
			domain.DaySaturday:      {Permanent: 1.25, Casual: 1.50},
			domain.DaySunday:        {Permanent: 1.50, Casual: 1.75},
			domain.DayPublicHoliday: {Permanent: 2.25, Casual: 2.75},
		},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// clerksTable covers the Clerks Private Sector Award, levels 1-5.
func clerksTable() *RateTable {
	t, err := NewRateTable(domain.AwardClerks,
		map[int]LevelRates{
			1: {Permanent: 25.65, Casual: 32.06},
			2: {Permanent: 26.91, Casual: 33.64},
			3: {Permanent: 27.91, Casual: 34.89},
			4: {Permanent: 29.30, Casual: 36.63},
			5: {Permanent: 30.49, Casual: 38.11},
		},
		map[domain.DayType]PenaltyRates{
			domain.DaySaturday:      {Permanent: 1.25, Casual: 1.50},
			domain.DaySunday:        {Permanent: 2.00, Casual: 2.25},
			domain.DayPublicHoliday: {Permanent: 2.50, Casual: 2.75},
		},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultProvider returns a provider loaded with every shipped award table.
func DefaultProvider() *Provider {
	return NewProvider(retailTable(), hospitalityTable(), clerksTable())
}
