package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/techvision/crm-finance/internal/apperrors"
	"github.com/techvision/crm-finance/internal/core/domain"
	portssvc "github.com/techvision/crm-finance/internal/core/ports/services"
	"github.com/techvision/crm-finance/internal/core/services"
	"github.com/techvision/crm-finance/internal/dto"
)

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListActiveCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) UpdateRate(ctx context.Context, code string, rateType domain.RateType, rate decimal.Decimal, operatorID int64, expectedVersion int64) error {
	args := m.Called(ctx, code, rateType, rate, operatorID, expectedVersion)
	return args.Error(0)
}

func (m *MockCurrencyRepository) ListHistory(ctx context.Context, code string, limit int) ([]domain.ExchangeRateHistoryEntry, error) {
	args := m.Called(ctx, code, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRateHistoryEntry), args.Error(1)
}

// --- Test Suite ---
type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCurrencyRepository
	service  portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *CurrencyServiceTestSuite) TestGetCurrency_NormalizesCode() {
	ctx := context.Background()
	expected := &domain.Currency{Code: "USD", Name: "US Dollar"}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "USD").Return(expected, nil).Once()

	currency, err := suite.service.GetCurrency(ctx, " usd ")

	suite.Require().NoError(err)
	suite.Equal(expected, currency)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestGetCurrency_BadCode() {
	ctx := context.Background()

	_, err := suite.service.GetCurrency(ctx, "DOLLARS")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindCurrencyByCode")
}

func (suite *CurrencyServiceTestSuite) TestGetCurrency_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindCurrencyByCode", ctx, "NTF").Return(nil, apperrors.ErrNotFound).Once()

	currency, err := suite.service.GetCurrency(ctx, "NTF")

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Success() {
	ctx := context.Background()
	operatorID := int64(42)
	req := dto.CreateCurrencyRequest{
		Code:   "TWD",
		Name:   "New Taiwan Dollar",
		Symbol: "NT$",
	}

	suite.mockRepo.On("SaveCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.Code == req.Code && c.Name == req.Name && c.Symbol == req.Symbol &&
			c.Active && !c.IsBase && c.Precision == 2 && c.CreatedBy == operatorID
	})).Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, operatorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(currency)
	suite.Equal(req.Code, currency.Code)
	suite.Nil(currency.FloatingRate)
	suite.Nil(currency.FixedRate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_SaveError() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{Code: "ERR", Name: "Error", Symbol: "E"}
	expectedErr := assert.AnError

	suite.mockRepo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).Return(expectedErr).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, int64(1))

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestSetFixedRate_Success() {
	ctx := context.Background()
	operatorID := int64(7)
	rate := decimal.RequireFromString("7.0000")
	usd := &domain.Currency{Code: "USD", Version: 3}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "USD").Return(usd, nil).Once()
	suite.mockRepo.On("UpdateRate", ctx, "USD", domain.RateTypeFixed, rate, operatorID, int64(3)).Return(nil).Once()

	err := suite.service.SetFixedRate(ctx, "usd", rate, operatorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestSetFixedRate_BaseIsImmutable() {
	ctx := context.Background()
	cny := &domain.Currency{Code: "CNY", IsBase: true}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "CNY").Return(cny, nil).Once()

	err := suite.service.SetFixedRate(ctx, "CNY", decimal.NewFromInt(2), int64(1))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrImmutableBase)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateRate")
}

func (suite *CurrencyServiceTestSuite) TestSetFixedRate_NonPositiveRate() {
	ctx := context.Background()

	err := suite.service.SetFixedRate(ctx, "USD", decimal.Zero, int64(1))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindCurrencyByCode")
}

func (suite *CurrencyServiceTestSuite) TestRecordFloatingRate_StaleVersionConflict() {
	ctx := context.Background()
	rate := decimal.RequireFromString("7.18")
	usd := &domain.Currency{Code: "USD", Version: 5}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "USD").Return(usd, nil).Once()
	suite.mockRepo.On("UpdateRate", ctx, "USD", domain.RateTypeFloating, rate, int64(0), int64(5)).
		Return(apperrors.ErrConflict).Once()

	err := suite.service.RecordFloatingRate(ctx, "USD", rate, 0)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestLoadRateTable() {
	ctx := context.Background()
	rate := decimal.RequireFromString("7.18")
	currencies := []domain.Currency{
		{Code: "CNY", IsBase: true, Active: true, Precision: 2},
		{Code: "USD", Active: true, Precision: 2, FloatingRate: &rate},
	}

	suite.mockRepo.On("ListActiveCurrencies", ctx).Return(currencies, nil).Once()

	table, err := suite.service.LoadRateTable(ctx)

	suite.Require().NoError(err)
	suite.Equal("CNY", table.BaseCode())
	resolved, err := table.Resolve("USD", domain.RateTypeFloating)
	suite.Require().NoError(err)
	suite.True(resolved.Equal(rate))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestListHistory_ClampsLimit() {
	ctx := context.Background()
	entries := []domain.ExchangeRateHistoryEntry{{CurrencyCode: "USD"}}

	suite.mockRepo.On("ListHistory", ctx, "USD", 30).Return(entries, nil).Once()

	got, err := suite.service.ListHistory(ctx, "usd", -1)

	suite.Require().NoError(err)
	suite.Equal(entries, got)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
