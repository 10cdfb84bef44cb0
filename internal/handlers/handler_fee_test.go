package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/techvision/crm-finance/internal/core/domain"
	portssvc "github.com/techvision/crm-finance/internal/core/ports/services"
	"github.com/techvision/crm-finance/internal/dto"
	"github.com/techvision/crm-finance/internal/handlers"
	"github.com/techvision/crm-finance/internal/middleware"
)

// --- Mock PaymentFeeService ---
type MockPaymentFeeService struct {
	mock.Mock
}

func (m *MockPaymentFeeService) Calculate(ctx context.Context, amount decimal.Decimal, methodCode string) (domain.FeeBreakdown, error) {
	args := m.Called(ctx, amount, methodCode)
	return args.Get(0).(domain.FeeBreakdown), args.Error(1)
}

func (m *MockPaymentFeeService) ListMethods(ctx context.Context) ([]domain.PaymentMethodFeeRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethodFeeRule), args.Error(1)
}

func (m *MockPaymentFeeService) UpsertFeeRule(ctx context.Context, methodCode string, req dto.UpsertFeeRuleRequest, operatorID int64) error {
	args := m.Called(ctx, methodCode, req, operatorID)
	return args.Error(0)
}

var _ portssvc.PaymentFeeSvc = (*MockPaymentFeeService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) HasPermission(ctx context.Context, userID int64, code string) (bool, error) {
	args := m.Called(ctx, userID, code)
	return args.Bool(0), args.Error(1)
}

var _ portssvc.AuthSvc = (*MockAuthService)(nil)

// --- Test Suite ---
type FeeHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockFeeService *MockPaymentFeeService
	mockAuth       *MockAuthService
	jwtSecret      string
}

// generateTestToken creates a signed JWT for the given user.
func (suite *FeeHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "crm-finance-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *FeeHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockFeeService = new(MockPaymentFeeService)
	suite.mockAuth = new(MockAuthService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterFeeRoutes(v1, suite.mockFeeService, suite.mockAuth)
}

func (suite *FeeHandlerTestSuite) performRequest(method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *FeeHandlerTestSuite) TestCalculateFee_Success() {
	token := suite.generateTestToken("7")
	suite.mockAuth.On("HasPermission", mock.Anything, int64(7), domain.PermFinanceView).Return(true, nil).Once()

	feeType := domain.FeeTypePercentage
	feeValue := decimal.RequireFromString("0.006")
	suite.mockFeeService.On("Calculate", mock.Anything, decimal.NewFromInt(100), "wechat").Return(domain.FeeBreakdown{
		OriginalAmount: decimal.NewFromInt(100),
		FeeType:        &feeType,
		FeeValue:       &feeValue,
		FeeAmount:      decimal.RequireFromString("0.60"),
		TotalAmount:    decimal.RequireFromString("100.60"),
	}, nil).Once()

	body, _ := json.Marshal(dto.CalculateFeeRequest{Amount: decimal.NewFromInt(100), Method: "wechat"})
	w := suite.performRequest(http.MethodPost, "/api/v1/payment-fees/calculate", token, body)

	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    dto.FeeBreakdownResponse `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Success)
	suite.True(resp.Data.FeeAmount.Equal(decimal.RequireFromString("0.60")))
	suite.True(resp.Data.TotalAmount.Equal(decimal.RequireFromString("100.60")))
	suite.mockFeeService.AssertExpectations(suite.T())
	suite.mockAuth.AssertExpectations(suite.T())
}

func (suite *FeeHandlerTestSuite) TestCalculateFee_MissingToken() {
	body, _ := json.Marshal(dto.CalculateFeeRequest{Amount: decimal.NewFromInt(100), Method: "wechat"})
	w := suite.performRequest(http.MethodPost, "/api/v1/payment-fees/calculate", "", body)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockFeeService.AssertNotCalled(suite.T(), "Calculate")
}

func (suite *FeeHandlerTestSuite) TestCalculateFee_PermissionDenied() {
	token := suite.generateTestToken("9")
	suite.mockAuth.On("HasPermission", mock.Anything, int64(9), domain.PermFinanceView).Return(false, nil).Once()

	body, _ := json.Marshal(dto.CalculateFeeRequest{Amount: decimal.NewFromInt(100), Method: "wechat"})
	w := suite.performRequest(http.MethodPost, "/api/v1/payment-fees/calculate", token, body)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockFeeService.AssertNotCalled(suite.T(), "Calculate")
}

func (suite *FeeHandlerTestSuite) TestCalculateFee_InvalidBody() {
	token := suite.generateTestToken("7")
	suite.mockAuth.On("HasPermission", mock.Anything, int64(7), domain.PermFinanceView).Return(true, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/payment-fees/calculate", token, []byte(`{"amount": 100}`))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockFeeService.AssertNotCalled(suite.T(), "Calculate")
}

func (suite *FeeHandlerTestSuite) TestListMethods_Success() {
	token := suite.generateTestToken("7")
	suite.mockAuth.On("HasPermission", mock.Anything, int64(7), domain.PermFinanceView).Return(true, nil).Once()

	feeType := domain.FeeTypePercentage
	feeValue := decimal.RequireFromString("0.006")
	suite.mockFeeService.On("ListMethods", mock.Anything).Return([]domain.PaymentMethodFeeRule{
		{MethodCode: "wechat", Label: "WeChat Pay", FeeType: &feeType, FeeValue: &feeValue, Enabled: true, SortOrder: 1},
		{MethodCode: "cash", Label: "Cash", Enabled: true, SortOrder: 4},
	}, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/payment-methods", token, nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Success bool                        `json:"success"`
		Data    []dto.PaymentMethodResponse `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Data, 2)
	suite.Equal("wechat", resp.Data[0].MethodCode)
	suite.Nil(resp.Data[1].FeeType)
}

func (suite *FeeHandlerTestSuite) TestUpsertFeeRule_Success() {
	token := suite.generateTestToken("7")
	suite.mockAuth.On("HasPermission", mock.Anything, int64(7), domain.PermFinanceEdit).Return(true, nil).Once()

	feeType := "percentage"
	feeValue := decimal.RequireFromString("0.008")
	req := dto.UpsertFeeRuleRequest{Label: "WeChat Pay", FeeType: &feeType, FeeValue: &feeValue, Enabled: true}
	suite.mockFeeService.On("UpsertFeeRule", mock.Anything, "wechat", req, int64(7)).Return(nil).Once()

	body, _ := json.Marshal(req)
	w := suite.performRequest(http.MethodPut, "/api/v1/payment-methods/wechat/fee", token, body)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockFeeService.AssertExpectations(suite.T())
}

func TestFeeHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(FeeHandlerTestSuite))
}
