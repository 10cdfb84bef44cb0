package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techvision/crm-finance/internal/apperrors"
	"github.com/techvision/crm-finance/internal/core/domain"
	portsrepo "github.com/techvision/crm-finance/internal/core/ports/repositories"
	portssvc "github.com/techvision/crm-finance/internal/core/ports/services"
	"github.com/techvision/crm-finance/internal/dto"
)

// SettlementService turns receipt batches into monthly commission
// settlements. Drafts can be recomputed by deleting and recreating; a
// finalized settlement is immutable.
type SettlementService struct {
	settlementRepo portsrepo.SettlementRepositoryFacade
	ruleRepo       portsrepo.CommissionRuleReader
	currencySvc    portssvc.CurrencyReaderSvc
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	settlementRepo portsrepo.SettlementRepositoryFacade,
	ruleRepo portsrepo.CommissionRuleReader,
	currencySvc portssvc.CurrencyReaderSvc,
) *SettlementService {
	return &SettlementService{
		settlementRepo: settlementRepo,
		ruleRepo:       ruleRepo,
		currencySvc:    currencySvc,
	}
}

// CreateDraft selects the user's rule set, converts every receipt into the
// rule currency and stores the computed lines as a draft settlement. The
// tier rate is chosen from the month total so splitting a batch into many
// receipts cannot change the applied rate.
func (s *SettlementService) CreateDraft(ctx context.Context, req dto.CreateSettlementRequest, operatorID int64) (*domain.CommissionSettlement, error) {
	if err := domain.ValidateMonthKey(req.MonthKey); err != nil {
		return nil, err
	}

	rules, err := s.ruleRepo.ListActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active commission rules: %w", err)
	}
	rule, err := domain.SelectRule(rules, req.DepartmentID, req.UserID)
	if err != nil {
		return nil, err
	}
	table, err := s.currencySvc.LoadRateTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate table: %w", err)
	}

	items := make([]domain.SettlementItem, 0, len(req.Items))
	total := decimal.Zero
	for _, it := range req.Items {
		if !it.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: receipt %q amount must be positive", apperrors.ErrValidation, it.ReceiptRef)
		}
		converted, err := table.Convert(it.Amount, it.Currency, rule.Currency, rule.RateMode)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.SettlementItem{
			ReceiptRef:      it.ReceiptRef,
			SourceAmount:    it.Amount,
			SourceCurrency:  it.Currency,
			ConvertedAmount: converted,
		})
		total = total.Add(converted)
	}

	rate := rule.RateFor(total)
	commission := decimal.Zero
	for i := range items {
		items[i].RateApplied = rate
		items[i].Commission = items[i].ConvertedAmount.Mul(rate).Round(2)
		commission = commission.Add(items[i].Commission)
	}

	settlement := domain.CommissionSettlement{
		Number:           uuid.NewString(),
		MonthKey:         req.MonthKey,
		UserID:           req.UserID,
		DepartmentID:     req.DepartmentID,
		RuleSetID:        rule.ID,
		Status:           domain.SettlementStatusDraft,
		Currency:         rule.Currency,
		TotalAmount:      total,
		CommissionAmount: commission,
		Items:            items,
	}
	settlement.CreatedBy = operatorID
	settlement.LastUpdatedBy = operatorID

	id, err := s.settlementRepo.CreateSettlement(ctx, settlement)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement for user %d month %s: %w", req.UserID, req.MonthKey, err)
	}
	saved, err := s.settlementRepo.FindSettlementByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload settlement %d: %w", id, err)
	}
	return saved, nil
}

// Finalize locks a draft settlement.
func (s *SettlementService) Finalize(ctx context.Context, settlementID int64, operatorID int64) error {
	settlement, err := s.settlementRepo.FindSettlementByID(ctx, settlementID)
	if err != nil {
		return fmt.Errorf("failed to find settlement %d: %w", settlementID, err)
	}
	if settlement.Status != domain.SettlementStatusDraft {
		return fmt.Errorf("%w: settlement %d is %s, only drafts can be finalized", apperrors.ErrValidation, settlementID, settlement.Status)
	}
	if err := s.settlementRepo.FinalizeSettlement(ctx, settlementID, operatorID); err != nil {
		return fmt.Errorf("failed to finalize settlement %d: %w", settlementID, err)
	}
	return nil
}

// GetSettlement retrieves a settlement with its items.
func (s *SettlementService) GetSettlement(ctx context.Context, settlementID int64) (*domain.CommissionSettlement, error) {
	settlement, err := s.settlementRepo.FindSettlementByID(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to find settlement %d: %w", settlementID, err)
	}
	return settlement, nil
}

// ListSettlements retrieves settlements for a month, or all when monthKey is
// empty.
func (s *SettlementService) ListSettlements(ctx context.Context, monthKey string) ([]domain.CommissionSettlement, error) {
	if monthKey != "" {
		if err := domain.ValidateMonthKey(monthKey); err != nil {
			return nil, err
		}
	}
	settlements, err := s.settlementRepo.ListSettlements(ctx, monthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	if settlements == nil {
		return []domain.CommissionSettlement{}, nil
	}
	return settlements, nil
}
