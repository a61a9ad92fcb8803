package awards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairworkly/pkg/domain"
	dErrors "fairworkly/pkg/domain-errors"
)

func TestDefaultProviderRates(t *testing.T) {
	p := DefaultProvider()

	t.Run("retail level 1", func(t *testing.T) {
		rate, err := p.PermanentRate(domain.AwardRetail, 1)
		require.NoError(t, err)
		assert.Equal(t, 26.55, rate)

		casual, err := p.CasualRate(domain.AwardRetail, 1)
		require.NoError(t, err)
		assert.Equal(t, 33.19, casual)
	})

	t.Run("casual rate is tabulated, not derived", func(t *testing.T) {
		// The loaded figure is rounded per level in the table; deriving
		// permanent x 1.25 at call time would drift by fractions of a cent.
		for level := MinLevel; level <= 8; level++ {
			permanent, err := p.PermanentRate(domain.AwardRetail, level)
			require.NoError(t, err)
			casual, err := p.CasualRate(domain.AwardRetail, level)
			require.NoError(t, err)
			assert.InDelta(t, permanent*(1+CasualLoading), casual, 0.005, "level %d", level)
		}
	})

	t.Run("base rate follows employment category", func(t *testing.T) {
		permanent, err := p.BaseRate(domain.AwardRetail, 2, domain.EmploymentPermanent)
		require.NoError(t, err)
		partTime, err := p.BaseRate(domain.AwardRetail, 2, domain.EmploymentPartTime)
		require.NoError(t, err)
		casual, err := p.BaseRate(domain.AwardRetail, 2, domain.EmploymentCasual)
		require.NoError(t, err)

		assert.Equal(t, permanent, partTime)
		assert.Greater(t, casual, permanent)
	})

	t.Run("penalty multipliers", func(t *testing.T) {
		m, err := p.PenaltyMultiplier(domain.AwardRetail, domain.DaySaturday, domain.EmploymentPermanent)
		require.NoError(t, err)
		assert.Equal(t, 1.25, m)

		m, err = p.PenaltyMultiplier(domain.AwardRetail, domain.DayPublicHoliday, domain.EmploymentCasual)
		require.NoError(t, err)
		assert.Equal(t, 2.50, m)
	})
}

func TestProviderConfigurationErrors(t *testing.T) {
	p := DefaultProvider()

	t.Run("level out of range", func(t *testing.T) {
		_, err := p.PermanentRate(domain.AwardRetail, 0)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))

		_, err = p.PermanentRate(domain.AwardRetail, 9)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	})

	t.Run("level unsupported by this award", func(t *testing.T) {
		// Hospitality tabulates levels 1-6 only.
		_, err := p.PermanentRate(domain.AwardHospitality, 7)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	})

	t.Run("unknown award", func(t *testing.T) {
		_, err := p.PermanentRate(domain.AwardCode("mining"), 1)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	})
}
