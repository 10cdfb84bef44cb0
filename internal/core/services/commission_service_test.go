package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/techvision/crm-finance/internal/apperrors"
	"github.com/techvision/crm-finance/internal/core/domain"
	portssvc "github.com/techvision/crm-finance/internal/core/ports/services"
	"github.com/techvision/crm-finance/internal/core/services"
	"github.com/techvision/crm-finance/internal/dto"
)

// --- Mock CommissionRuleRepository ---
type MockCommissionRuleRepository struct {
	mock.Mock
}

func (m *MockCommissionRuleRepository) FindRuleByID(ctx context.Context, ruleID int64) (*domain.CommissionRuleSet, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionRuleSet), args.Error(1)
}

func (m *MockCommissionRuleRepository) ListActiveRules(ctx context.Context) ([]domain.CommissionRuleSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommissionRuleSet), args.Error(1)
}

func (m *MockCommissionRuleRepository) ListRules(ctx context.Context) ([]domain.CommissionRuleSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommissionRuleSet), args.Error(1)
}

func (m *MockCommissionRuleRepository) SaveRule(ctx context.Context, rule domain.CommissionRuleSet) (int64, error) {
	args := m.Called(ctx, rule)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommissionRuleRepository) SetRuleActive(ctx context.Context, ruleID int64, active bool, operatorID int64) error {
	args := m.Called(ctx, ruleID, active, operatorID)
	return args.Error(0)
}

func (m *MockCommissionRuleRepository) DeleteRule(ctx context.Context, ruleID int64) error {
	args := m.Called(ctx, ruleID)
	return args.Error(0)
}

// --- Mock SettlementRepository ---
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) FindSettlementByID(ctx context.Context, settlementID int64) (*domain.CommissionSettlement, error) {
	args := m.Called(ctx, settlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionSettlement), args.Error(1)
}

func (m *MockSettlementRepository) ListSettlements(ctx context.Context, monthKey string) ([]domain.CommissionSettlement, error) {
	args := m.Called(ctx, monthKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommissionSettlement), args.Error(1)
}

func (m *MockSettlementRepository) CreateSettlement(ctx context.Context, settlement domain.CommissionSettlement) (int64, error) {
	args := m.Called(ctx, settlement)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSettlementRepository) FinalizeSettlement(ctx context.Context, settlementID int64, operatorID int64) error {
	args := m.Called(ctx, settlementID, operatorID)
	return args.Error(0)
}

func (m *MockSettlementRepository) RuleIsReferenced(ctx context.Context, ruleID int64) (bool, error) {
	args := m.Called(ctx, ruleID)
	return args.Bool(0), args.Error(1)
}

// --- Mock CurrencyReaderSvc ---
type MockCurrencyReaderSvc struct {
	mock.Mock
}

func (m *MockCurrencyReaderSvc) GetCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyReaderSvc) ListActive(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyReaderSvc) LoadRateTable(ctx context.Context) (domain.RateTable, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.RateTable), args.Error(1)
}

func (m *MockCurrencyReaderSvc) ListHistory(ctx context.Context, code string, limit int) ([]domain.ExchangeRateHistoryEntry, error) {
	args := m.Called(ctx, code, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRateHistoryEntry), args.Error(1)
}

// cnyUsdRateTable has CNY as base and USD at 7.18 floating / 7.0 fixed.
func cnyUsdRateTable() domain.RateTable {
	floating := decimal.RequireFromString("7.18")
	fixed := decimal.RequireFromString("7.0")
	return domain.NewRateTable([]domain.Currency{
		{Code: "CNY", IsBase: true, Active: true, Precision: 2},
		{Code: "USD", Active: true, Precision: 2, FloatingRate: &floating, FixedRate: &fixed},
	})
}

func fixedRateRule(id int64, rate string, scope domain.RuleScope) domain.CommissionRuleSet {
	r := decimal.RequireFromString(rate)
	return domain.CommissionRuleSet{
		ID:        id,
		Name:      "rule",
		RuleType:  domain.RuleTypeFixed,
		FixedRate: &r,
		Currency:  "CNY",
		RateMode:  domain.RateTypeFloating,
		Scope:     scope,
		IsActive:  true,
	}
}

// --- Test Suite ---
type CommissionServiceTestSuite struct {
	suite.Suite
	mockRules      *MockCommissionRuleRepository
	mockSettlement *MockSettlementRepository
	mockCurrency   *MockCurrencyReaderSvc
	service        portssvc.CommissionSvcFacade
}

func (suite *CommissionServiceTestSuite) SetupTest() {
	suite.mockRules = new(MockCommissionRuleRepository)
	suite.mockSettlement = new(MockSettlementRepository)
	suite.mockCurrency = new(MockCurrencyReaderSvc)
	suite.service = services.NewCommissionService(suite.mockRules, suite.mockSettlement, suite.mockCurrency)
}

// --- Test Cases ---

func (suite *CommissionServiceTestSuite) TestComputeCommission_UserScopeBeatsDepartment() {
	ctx := context.Background()
	rules := []domain.CommissionRuleSet{
		fixedRateRule(1, "0.03", domain.RuleScope{}),
		fixedRateRule(2, "0.05", domain.RuleScope{DepartmentIDs: []int64{3}}),
		fixedRateRule(3, "0.08", domain.RuleScope{UserIDs: []int64{7}}),
	}

	suite.mockRules.On("ListActiveRules", ctx).Return(rules, nil).Once()
	suite.mockCurrency.On("LoadRateTable", ctx).Return(cnyUsdRateTable(), nil).Once()

	result, err := suite.service.ComputeCommission(ctx, dto.ComputeCommissionRequest{
		Amount:       decimal.NewFromInt(1000),
		Currency:     "CNY",
		DepartmentID: 3,
		UserID:       7,
	})

	suite.Require().NoError(err)
	suite.Equal(int64(3), result.RuleID)
	suite.True(result.RateApplied.Equal(decimal.RequireFromString("0.08")))
	suite.True(result.CommissionAmount.Equal(decimal.RequireFromString("80.00")), "commission was %s", result.CommissionAmount)
	suite.Equal("CNY", result.CommissionCurrency)
	suite.mockRules.AssertExpectations(suite.T())
}

func (suite *CommissionServiceTestSuite) TestComputeCommission_FallsBackToDepartmentRule() {
	ctx := context.Background()
	rules := []domain.CommissionRuleSet{
		fixedRateRule(1, "0.03", domain.RuleScope{}),
		fixedRateRule(2, "0.05", domain.RuleScope{DepartmentIDs: []int64{3}}),
		fixedRateRule(3, "0.08", domain.RuleScope{UserIDs: []int64{7}}),
	}

	suite.mockRules.On("ListActiveRules", ctx).Return(rules, nil).Once()
	suite.mockCurrency.On("LoadRateTable", ctx).Return(cnyUsdRateTable(), nil).Once()

	result, err := suite.service.ComputeCommission(ctx, dto.ComputeCommissionRequest{
		Amount:       decimal.NewFromInt(1000),
		Currency:     "CNY",
		DepartmentID: 3,
		UserID:       8,
	})

	suite.Require().NoError(err)
	suite.Equal(int64(2), result.RuleID)
	suite.True(result.CommissionAmount.Equal(decimal.RequireFromString("50.00")))
}

func (suite *CommissionServiceTestSuite) TestComputeCommission_ConvertsIntoRuleCurrency() {
	ctx := context.Background()
	rules := []domain.CommissionRuleSet{fixedRateRule(1, "0.10", domain.RuleScope{})}

	suite.mockRules.On("ListActiveRules", ctx).Return(rules, nil).Once()
	suite.mockCurrency.On("LoadRateTable", ctx).Return(cnyUsdRateTable(), nil).Once()

	result, err := suite.service.ComputeCommission(ctx, dto.ComputeCommissionRequest{
		Amount:   decimal.NewFromInt(100),
		Currency: "USD",
		UserID:   1,
	})

	suite.Require().NoError(err)
	suite.True(result.BaseAmount.Equal(decimal.RequireFromString("718.00")), "base was %s", result.BaseAmount)
	suite.True(result.CommissionAmount.Equal(decimal.RequireFromString("71.80")))
}

func (suite *CommissionServiceTestSuite) TestComputeCommission_NoApplicableRule() {
	ctx := context.Background()
	rules := []domain.CommissionRuleSet{
		fixedRateRule(3, "0.08", domain.RuleScope{UserIDs: []int64{7}}),
	}

	suite.mockRules.On("ListActiveRules", ctx).Return(rules, nil).Once()

	_, err := suite.service.ComputeCommission(ctx, dto.ComputeCommissionRequest{
		Amount:   decimal.NewFromInt(1000),
		Currency: "CNY",
		UserID:   99,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoApplicableRule)
	suite.mockCurrency.AssertNotCalled(suite.T(), "LoadRateTable")
}

func (suite *CommissionServiceTestSuite) TestComputeCommission_NonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.ComputeCommission(ctx, dto.ComputeCommissionRequest{
		Amount:   decimal.Zero,
		Currency: "CNY",
		UserID:   1,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRules.AssertNotCalled(suite.T(), "ListActiveRules")
}

func (suite *CommissionServiceTestSuite) TestSaveRule_UnknownCurrency() {
	ctx := context.Background()
	rate := decimal.RequireFromString("0.05")
	req := dto.SaveRuleRequest{
		Name:      "Sales default",
		RuleType:  "fixed",
		FixedRate: &rate,
		Currency:  "XXX",
	}

	suite.mockCurrency.On("GetCurrency", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.SaveRule(ctx, req, 0, int64(1))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRules.AssertNotCalled(suite.T(), "SaveRule")
}

func (suite *CommissionServiceTestSuite) TestSaveRule_Success() {
	ctx := context.Background()
	operatorID := int64(5)
	rate := decimal.RequireFromString("0.05")
	req := dto.SaveRuleRequest{
		Name:      "Sales default",
		RuleType:  "fixed",
		FixedRate: &rate,
		Currency:  "CNY",
	}
	saved := fixedRateRule(11, "0.05", domain.RuleScope{})

	suite.mockCurrency.On("GetCurrency", ctx, "CNY").Return(&domain.Currency{Code: "CNY", IsBase: true}, nil).Once()
	suite.mockRules.On("SaveRule", ctx, mock.MatchedBy(func(r domain.CommissionRuleSet) bool {
		return r.Name == req.Name && r.RuleType == domain.RuleTypeFixed && r.CreatedBy == operatorID
	})).Return(int64(11), nil).Once()
	suite.mockRules.On("FindRuleByID", ctx, int64(11)).Return(&saved, nil).Once()

	rule, err := suite.service.SaveRule(ctx, req, 0, operatorID)

	suite.Require().NoError(err)
	suite.Equal(int64(11), rule.ID)
	suite.mockRules.AssertExpectations(suite.T())
}

func (suite *CommissionServiceTestSuite) TestDeleteRule_ReferencedConflict() {
	ctx := context.Background()
	rule := fixedRateRule(4, "0.05", domain.RuleScope{})

	suite.mockRules.On("FindRuleByID", ctx, int64(4)).Return(&rule, nil).Once()
	suite.mockSettlement.On("RuleIsReferenced", ctx, int64(4)).Return(true, nil).Once()

	err := suite.service.DeleteRule(ctx, 4)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRules.AssertNotCalled(suite.T(), "DeleteRule")
}

func (suite *CommissionServiceTestSuite) TestToggleRule_Success() {
	ctx := context.Background()
	rule := fixedRateRule(4, "0.05", domain.RuleScope{})

	suite.mockRules.On("FindRuleByID", ctx, int64(4)).Return(&rule, nil).Once()
	suite.mockRules.On("SetRuleActive", ctx, int64(4), false, int64(2)).Return(nil).Once()

	err := suite.service.ToggleRule(ctx, 4, false, 2)

	suite.Require().NoError(err)
	suite.mockRules.AssertExpectations(suite.T())
}

func TestCommissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommissionServiceTestSuite))
}
