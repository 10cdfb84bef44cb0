package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	portssvc "github.com/techvision/crm-finance/internal/core/ports/services"
)

// rateFeedResponse is the exchangerate-api.com payload shape: quotes are
// expressed as units of foreign currency per one base unit, so they are
// inverted before storage (the registry stores base units per foreign unit).
type rateFeedResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// RateSyncService pulls floating rates from the external feed into the
// currency registry. Every stored quote goes through the registry so the
// audit trail stays complete.
type RateSyncService struct {
	currencySvc portssvc.CurrencySvcFacade
	feedURL     string
	client      *http.Client
}

// NewRateSyncService creates a new RateSyncService. feedURL is the feed
// endpoint without the base currency path segment.
func NewRateSyncService(currencySvc portssvc.CurrencySvcFacade, feedURL string, timeout time.Duration) *RateSyncService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RateSyncService{
		currencySvc: currencySvc,
		feedURL:     feedURL,
		client:      &http.Client{Timeout: timeout},
	}
}

// SyncFloatingRates refreshes the floating rate of every active non-base
// currency the feed quotes. The first quote for a currency also seeds a
// missing fixed rate so settlements have a starting pin.
func (s *RateSyncService) SyncFloatingRates(ctx context.Context, operatorID int64) (int, error) {
	currencies, err := s.currencySvc.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	baseCode := ""
	for _, c := range currencies {
		if c.IsBase {
			baseCode = c.Code
			break
		}
	}
	if baseCode == "" {
		return 0, fmt.Errorf("no base currency configured")
	}

	quotes, err := s.fetchQuotes(ctx, baseCode)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, c := range currencies {
		if c.IsBase {
			continue
		}
		quote, ok := quotes[c.Code]
		if !ok || quote <= 0 {
			continue
		}
		// the feed quotes foreign-per-base; the registry stores base-per-foreign
		rate := decimal.NewFromInt(1).DivRound(decimal.NewFromFloat(quote), 6)
		if err := s.currencySvc.RecordFloatingRate(ctx, c.Code, rate, operatorID); err != nil {
			return updated, fmt.Errorf("failed to store feed rate for %s: %w", c.Code, err)
		}
		if c.FixedRate == nil {
			if err := s.currencySvc.SetFixedRate(ctx, c.Code, rate, operatorID); err != nil {
				return updated, fmt.Errorf("failed to seed fixed rate for %s: %w", c.Code, err)
			}
		}
		updated++
	}
	return updated, nil
}

func (s *RateSyncService) fetchQuotes(ctx context.Context, baseCode string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s", s.feedURL, baseCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate feed request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate feed unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	var payload rateFeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rate feed response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rate feed returned no quotes")
	}
	return payload.Rates, nil
}
