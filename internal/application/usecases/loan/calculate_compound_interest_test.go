package loan

import (
	"context"
	"errors"
	"testing"

	"github.com/Haleralex/emicalc/internal/application/dtos"
	domainerrors "github.com/Haleralex/emicalc/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCompoundInterestUseCase(t *testing.T) {
	uc := NewCalculateCompoundInterestUseCase(testDeps())

	tests := []struct {
		name          string
		cmd           dtos.CalculateCompoundInterestCommand
		wantFinal     string
		wantEarned    string
		wantFrequency int
	}{
		{
			name:          "annual",
			cmd:           dtos.CalculateCompoundInterestCommand{Principal: "10000", DurationYears: "5", InterestRate: strPtr("7.5")},
			wantFinal:     "14356.29",
			wantEarned:    "4356.29",
			wantFrequency: 1,
		},
		{
			name:          "monthly",
			cmd:           dtos.CalculateCompoundInterestCommand{Principal: "10000", DurationYears: "5", InterestRate: strPtr("7.5"), CompoundingFrequency: 12},
			wantFinal:     "14532.94",
			wantEarned:    "4532.94",
			wantFrequency: 12,
		},
		{
			name:          "default rate",
			cmd:           dtos.CalculateCompoundInterestCommand{Principal: "1000", DurationYears: "1"},
			wantFinal:     "1075.00",
			wantEarned:    "75.00",
			wantFrequency: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.Execute(context.Background(), tt.cmd)

			require.NoError(t, err)
			assert.Equal(t, tt.wantFinal, result.FinalAmount.Amount)
			assert.Equal(t, tt.wantEarned, result.InterestEarned.Amount)
			assert.Equal(t, tt.wantFrequency, result.CompoundingFrequency)
		})
	}
}

func TestCalculateCompoundInterestUseCase_Rejected(t *testing.T) {
	calc := &failingCalculator{err: errors.New("must not be called")}
	deps := testDeps()
	deps.Calculator = calc
	uc := NewCalculateCompoundInterestUseCase(deps)

	_, err := uc.Execute(context.Background(), dtos.CalculateCompoundInterestCommand{
		Principal: "10000", DurationYears: "5", CompoundingFrequency: -1,
	})
	require.Error(t, err)
	var ve domainerrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "compounding_frequency", ve.Field)
	assert.Equal(t, "COMPOUNDING_FREQUENCY_UNSUPPORTED", ve.Code)

	for _, frequency := range []int{7, 1000000000} {
		_, err = uc.Execute(context.Background(), dtos.CalculateCompoundInterestCommand{
			Principal: "10000", DurationYears: "30", CompoundingFrequency: frequency,
		})
		require.ErrorAs(t, err, &ve, frequency)
		assert.Equal(t, "COMPOUNDING_FREQUENCY_UNSUPPORTED", ve.Code)
		assert.Contains(t, ve.Message, "1, 2, 4, 12, 52, 365")
	}

	_, err = uc.Execute(context.Background(), dtos.CalculateCompoundInterestCommand{Principal: "10000", DurationYears: "0"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "DURATION_POSITIVE", ve.Code)

	assert.Zero(t, calc.calls)
}

func TestCalculateCompoundInterestUseCase_CalculationError(t *testing.T) {
	metrics := &spyMetrics{}
	deps := testDeps()
	deps.Metrics = metrics
	deps.Calculator = &failingCalculator{
		err: domainerrors.NewCalculationError(domainerrors.CodeCalculationFailed, "compound interest failed", domainerrors.ErrOverflow),
	}
	uc := NewCalculateCompoundInterestUseCase(deps)

	_, err := uc.Execute(context.Background(), dtos.CalculateCompoundInterestCommand{Principal: "10000", DurationYears: "5"})

	require.Error(t, err)
	assert.True(t, domainerrors.IsCalculationError(err))
	assert.Equal(t, []string{"compound_interest:failed"}, metrics.calculations)
}

func TestCalculateCompoundInterestUseCase_CacheKeyIncludesFrequency(t *testing.T) {
	cache := newMockCache()
	deps := testDeps()
	deps.Cache = cache
	uc := NewCalculateCompoundInterestUseCase(deps)

	_, err := uc.Execute(context.Background(), dtos.CalculateCompoundInterestCommand{Principal: "10000", DurationYears: "5"})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), dtos.CalculateCompoundInterestCommand{Principal: "10000", DurationYears: "5", CompoundingFrequency: 12})
	require.NoError(t, err)

	assert.Contains(t, cache.data, "compound_interest:10000.00:5:7.5:0")
	assert.Contains(t, cache.data, "compound_interest:10000.00:5:7.5:12")
}
