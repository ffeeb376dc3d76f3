package loan

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Haleralex/emicalc/internal/application/calculation"
	"github.com/Haleralex/emicalc/internal/application/validation"
	"github.com/Haleralex/emicalc/internal/domain/loan"
	"github.com/shopspring/decimal"
)

// mockCache - ResultCache в памяти с управляемыми ошибками.
type mockCache struct {
	mu       sync.Mutex
	data     map[string]string
	getErr   error
	setErr   error
	getCalls int
	setCalls int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]string)}
}

func (m *mockCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

// spyMetrics запоминает записанные метрики.
type spyMetrics struct {
	mu           sync.Mutex
	calculations []string
	lookups      []string
}

func (s *spyMetrics) RecordCalculation(kind, outcome string, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calculations = append(s.calculations, kind+":"+outcome)
}

func (s *spyMetrics) RecordCacheLookup(kind, result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = append(s.lookups, kind+":"+result)
}

// failingCalculator - LoanCalculator, который всегда возвращает err.
type failingCalculator struct {
	err   error
	calls int
}

func (f *failingCalculator) CalculateEMI(*loan.CalculationInput) (loan.CalculationResult, error) {
	f.calls++
	return loan.CalculationResult{}, f.err
}

func (f *failingCalculator) CalculateEMIFromParams(decimal.Decimal, int, decimal.Decimal) (loan.CalculationResult, error) {
	f.calls++
	return loan.CalculationResult{}, f.err
}

func (f *failingCalculator) CalculateCompoundInterest(*loan.CalculationInput) (decimal.Decimal, error) {
	f.calls++
	return decimal.Decimal{}, f.err
}

func (f *failingCalculator) CalculateCompoundInterestFromParams(decimal.Decimal, int, decimal.Decimal) (decimal.Decimal, error) {
	f.calls++
	return decimal.Decimal{}, f.err
}

func (f *failingCalculator) CalculateCompoundInterestWithFrequency(*loan.CalculationInput, int) (decimal.Decimal, error) {
	f.calls++
	return decimal.Decimal{}, f.err
}

func (f *failingCalculator) GenerateSchedule(*loan.CalculationInput) ([]loan.AmortizationEntry, error) {
	f.calls++
	return nil, f.err
}

// testDeps собирает зависимости на реальных движках.
func testDeps() Dependencies {
	cfg := loan.DefaultEngineConfig()
	return Dependencies{
		Validator:  validation.NewInputValidator(cfg),
		Calculator: calculation.NewFinancialEngine(cfg),
		CacheTTL:   time.Minute,
		Config:     cfg,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func strPtr(s string) *string {
	return &s
}
