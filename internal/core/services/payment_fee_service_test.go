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

// --- Mock FeeRuleRepository ---
type MockFeeRuleRepository struct {
	mock.Mock
}

func (m *MockFeeRuleRepository) FindFeeRule(ctx context.Context, methodCode string) (*domain.PaymentMethodFeeRule, error) {
	args := m.Called(ctx, methodCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethodFeeRule), args.Error(1)
}

func (m *MockFeeRuleRepository) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethodFeeRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethodFeeRule), args.Error(1)
}

func (m *MockFeeRuleRepository) UpsertFeeRule(ctx context.Context, rule domain.PaymentMethodFeeRule, operatorID int64) error {
	args := m.Called(ctx, rule, operatorID)
	return args.Error(0)
}

// --- Test Suite ---
type PaymentFeeServiceTestSuite struct {
	suite.Suite
	mockRepo *MockFeeRuleRepository
	service  portssvc.PaymentFeeSvc
}

func (suite *PaymentFeeServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockFeeRuleRepository)
	suite.service = services.NewPaymentFeeService(suite.mockRepo)
}

func percentageRule(code string, value string) *domain.PaymentMethodFeeRule {
	feeType := domain.FeeTypePercentage
	feeValue := decimal.RequireFromString(value)
	return &domain.PaymentMethodFeeRule{
		MethodCode: code,
		Label:      code,
		FeeType:    &feeType,
		FeeValue:   &feeValue,
		Enabled:    true,
	}
}

// --- Test Cases ---

func (suite *PaymentFeeServiceTestSuite) TestCalculate_PercentageFee() {
	ctx := context.Background()

	suite.mockRepo.On("FindFeeRule", ctx, "wechat").Return(percentageRule("wechat", "0.006"), nil).Once()

	breakdown, err := suite.service.Calculate(ctx, decimal.NewFromInt(100), "wechat")

	suite.Require().NoError(err)
	suite.True(breakdown.FeeAmount.Equal(decimal.RequireFromString("0.60")), "fee was %s", breakdown.FeeAmount)
	suite.True(breakdown.TotalAmount.Equal(decimal.RequireFromString("100.60")), "total was %s", breakdown.TotalAmount)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PaymentFeeServiceTestSuite) TestCalculate_FlatFee() {
	ctx := context.Background()
	feeType := domain.FeeTypeFlat
	feeValue := decimal.RequireFromString("5")
	rule := &domain.PaymentMethodFeeRule{MethodCode: "bank", FeeType: &feeType, FeeValue: &feeValue, Enabled: true}

	suite.mockRepo.On("FindFeeRule", ctx, "bank").Return(rule, nil).Once()

	breakdown, err := suite.service.Calculate(ctx, decimal.RequireFromString("12.34"), "bank")

	suite.Require().NoError(err)
	suite.True(breakdown.FeeAmount.Equal(decimal.RequireFromString("5.00")))
	suite.True(breakdown.TotalAmount.Equal(decimal.RequireFromString("17.34")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PaymentFeeServiceTestSuite) TestCalculate_NonPositiveAmountSkipsLookup() {
	ctx := context.Background()

	breakdown, err := suite.service.Calculate(ctx, decimal.Zero, "wechat")

	suite.Require().NoError(err)
	suite.True(breakdown.OriginalAmount.IsZero())
	suite.True(breakdown.FeeAmount.IsZero())
	suite.True(breakdown.TotalAmount.IsZero())
	suite.Nil(breakdown.FeeType)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindFeeRule")
}

func (suite *PaymentFeeServiceTestSuite) TestCalculate_UnknownMethodIsFeeFree() {
	ctx := context.Background()
	amount := decimal.RequireFromString("250.00")

	suite.mockRepo.On("FindFeeRule", ctx, "crypto").Return(nil, apperrors.ErrNotFound).Once()

	breakdown, err := suite.service.Calculate(ctx, amount, "crypto")

	suite.Require().NoError(err)
	suite.True(breakdown.FeeAmount.IsZero())
	suite.True(breakdown.TotalAmount.Equal(amount))
	suite.Nil(breakdown.FeeType)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PaymentFeeServiceTestSuite) TestCalculate_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRepo.On("FindFeeRule", ctx, "wechat").Return(nil, expectedErr).Once()

	_, err := suite.service.Calculate(ctx, decimal.NewFromInt(10), "wechat")

	suite.Require().Error(err)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PaymentFeeServiceTestSuite) TestUpsertFeeRule_PercentageOverOne() {
	ctx := context.Background()
	feeType := "percentage"
	feeValue := decimal.RequireFromString("1.5")
	req := dto.UpsertFeeRuleRequest{Label: "WeChat Pay", FeeType: &feeType, FeeValue: &feeValue, Enabled: true}

	err := suite.service.UpsertFeeRule(ctx, "wechat", req, int64(1))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertFeeRule")
}

func (suite *PaymentFeeServiceTestSuite) TestUpsertFeeRule_MissingValue() {
	ctx := context.Background()
	feeType := "flat"
	req := dto.UpsertFeeRuleRequest{Label: "Bank Transfer", FeeType: &feeType, Enabled: true}

	err := suite.service.UpsertFeeRule(ctx, "bank", req, int64(1))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertFeeRule")
}

func (suite *PaymentFeeServiceTestSuite) TestUpsertFeeRule_Success() {
	ctx := context.Background()
	operatorID := int64(9)
	feeType := "percentage"
	feeValue := decimal.RequireFromString("0.006")
	req := dto.UpsertFeeRuleRequest{Label: "WeChat Pay", FeeType: &feeType, FeeValue: &feeValue, Enabled: true}

	suite.mockRepo.On("UpsertFeeRule", ctx, mock.MatchedBy(func(r domain.PaymentMethodFeeRule) bool {
		return r.MethodCode == "wechat" && r.Label == "WeChat Pay" &&
			r.FeeType != nil && *r.FeeType == domain.FeeTypePercentage &&
			r.FeeValue != nil && r.FeeValue.Equal(feeValue) && r.Enabled
	}), operatorID).Return(nil).Once()

	err := suite.service.UpsertFeeRule(ctx, " wechat ", req, operatorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestPaymentFeeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentFeeServiceTestSuite))
}
