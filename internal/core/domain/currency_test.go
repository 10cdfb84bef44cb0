package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techvision/crm-finance/internal/apperrors"
	"github.com/techvision/crm-finance/internal/core/domain"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func testRateTable() domain.RateTable {
	return domain.NewRateTable([]domain.Currency{
		{
			Code:      "CNY",
			IsBase:    true,
			Precision: 2,
			// stored rates on the base row must be ignored
			FloatingRate: decimalPtr(decimal.NewFromFloat(3.5)),
			FixedRate:    decimalPtr(decimal.NewFromFloat(9.9)),
		},
		{
			Code:         "USD",
			Precision:    2,
			FloatingRate: decimalPtr(decimal.NewFromFloat(7.18)),
			FixedRate:    decimalPtr(decimal.NewFromFloat(7.0)),
		},
		{
			Code:         "TWD",
			Precision:    2,
			FloatingRate: decimalPtr(decimal.NewFromFloat(0.22)),
		},
		{
			Code:      "JPY",
			Precision: 0,
			FixedRate: decimalPtr(decimal.NewFromFloat(0.048)),
		},
	})
}

func TestRateTable_Resolve_BaseAlwaysOne(t *testing.T) {
	table := testRateTable()

	for _, mode := range []domain.RateType{domain.RateTypeFloating, domain.RateTypeFixed} {
		rate, err := table.Resolve("CNY", mode)
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.NewFromInt(1)), "base currency must resolve to 1 in mode %s", mode)
	}
}

func TestRateTable_Resolve(t *testing.T) {
	table := testRateTable()

	rate, err := table.Resolve("USD", domain.RateTypeFloating)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(7.18)))

	rate, err = table.Resolve("USD", domain.RateTypeFixed)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(7.0)))
}

func TestRateTable_Resolve_MissingRate(t *testing.T) {
	table := testRateTable()

	// TWD has no fixed rate pinned
	_, err := table.Resolve("TWD", domain.RateTypeFixed)
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)

	// JPY has never been synced
	_, err = table.Resolve("JPY", domain.RateTypeFloating)
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)

	_, err = table.Resolve("XXX", domain.RateTypeFloating)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRateTable_Convert(t *testing.T) {
	table := testRateTable()

	// 100 USD -> CNY at 7.18
	got, err := table.Convert(decimal.NewFromInt(100), "USD", "CNY", domain.RateTypeFloating)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(718)), "got %s", got)

	// identity conversion does not touch rates
	got, err = table.Convert(decimal.NewFromInt(42), "JPY", "JPY", domain.RateTypeFloating)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(42)))

	// missing rate propagates, never defaults
	_, err = table.Convert(decimal.NewFromInt(100), "TWD", "USD", domain.RateTypeFixed)
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}

func TestRateTable_Convert_RoundTrip(t *testing.T) {
	table := testRateTable()
	tolerance := decimal.NewFromFloat(0.01) // one minor unit

	amounts := []decimal.Decimal{
		decimal.NewFromFloat(0.01),
		decimal.NewFromFloat(99.99),
		decimal.NewFromInt(12345),
	}
	for _, amount := range amounts {
		there, err := table.Convert(amount, "USD", "TWD", domain.RateTypeFloating)
		require.NoError(t, err)
		back, err := table.Convert(there, "TWD", "USD", domain.RateTypeFloating)
		require.NoError(t, err)
		diff := back.Sub(amount).Abs()
		assert.True(t, diff.LessThanOrEqual(tolerance), "round trip of %s drifted by %s", amount, diff)
	}
}

func TestRateTable_Convert_TargetPrecision(t *testing.T) {
	table := testRateTable()

	// JPY has zero minor-unit digits; result must be a whole number,
	// rounded half-up.
	got, err := table.Convert(decimal.NewFromFloat(1.0), "USD", "JPY", domain.RateTypeFixed)
	require.NoError(t, err)
	// 1 * 7.0 / 0.048 = 145.83..., rounds to 146
	assert.True(t, got.Equal(decimal.NewFromInt(146)), "got %s", got)
}

func TestParseRateType(t *testing.T) {
	_, err := domain.ParseRateType("floating")
	assert.NoError(t, err)
	_, err = domain.ParseRateType("fixed")
	assert.NoError(t, err)
	_, err = domain.ParseRateType("spot")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
