package calculation

import (
	"testing"

	domainerrors "github.com/Haleralex/emicalc/internal/domain/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchedule(t *testing.T) {
	engine := newEngine()

	schedule, err := engine.GenerateSchedule(mustInput(t, "10000", 5, "7.5"))
	require.NoError(t, err)
	require.Len(t, schedule, 60)

	first := schedule[0]
	assert.Equal(t, 1, first.Period)
	assert.Equal(t, "10000.00", first.OpeningBalance.StringFixed(2))
	assert.Equal(t, "62.50", first.Interest.StringFixed(2))
	assert.Equal(t, "137.88", first.Principal.StringFixed(2))
	assert.Equal(t, "200.38", first.Payment.StringFixed(2))
	assert.Equal(t, "9862.12", first.ClosingBalance.StringFixed(2))

	last := schedule[len(schedule)-1]
	assert.Equal(t, 60, last.Period)
	assert.True(t, last.ClosingBalance.IsZero())
	assert.Equal(t, "200.35", last.Payment.StringFixed(2))

	principalSum := decimal.Zero
	for i, entry := range schedule {
		principalSum = principalSum.Add(entry.Principal)
		if i > 0 {
			assert.True(t, entry.OpeningBalance.Equal(schedule[i-1].ClosingBalance), "period %d", entry.Period)
		}
	}
	assert.Equal(t, "10000.00", principalSum.StringFixed(2))
	assert.Equal(t, "12022.77", TotalPaid(schedule).StringFixed(2))
}

func TestGenerateSchedule_ZeroRate(t *testing.T) {
	engine := newEngine()

	schedule, err := engine.GenerateSchedule(mustInput(t, "1000", 3, "0"))
	require.NoError(t, err)
	require.Len(t, schedule, 36)

	for _, entry := range schedule[:35] {
		assert.Equal(t, "27.78", entry.Payment.StringFixed(2))
		assert.True(t, entry.Interest.IsZero())
	}
	assert.Equal(t, "27.70", schedule[35].Payment.StringFixed(2))
	assert.True(t, schedule[35].ClosingBalance.IsZero())
	assert.Equal(t, "1000.00", TotalPaid(schedule).StringFixed(2))
}

func TestGenerateSchedule_NilInput(t *testing.T) {
	_, err := newEngine().GenerateSchedule(nil)
	require.Error(t, err)
	assert.True(t, domainerrors.IsInvalidArgument(err))
}
