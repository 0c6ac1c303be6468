package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/services"
)

type mockPortfolioService struct {
	valuePortfolioFn func(userID uint) (*services.PortfolioSummary, error)
}

func (m *mockPortfolioService) ValuePortfolio(_ context.Context, userID uint) (*services.PortfolioSummary, error) {
	if m.valuePortfolioFn != nil {
		return m.valuePortfolioFn(userID)
	}
	return &services.PortfolioSummary{Holdings: []services.HoldingValue{}}, nil
}

var _ services.PortfolioValuator = (*mockPortfolioService)(nil)

func setupPortfolioRouter(handler *PortfolioHandler) *gin.Engine {
	r := gin.New()
	r.GET("/portfolio", injectUserID(1), handler.GetPortfolio)
	return r
}

func TestPortfolioHandler_GetPortfolio(t *testing.T) {
	t.Run("returns 200 with valued holdings", func(t *testing.T) {
		portfolioSvc := &mockPortfolioService{
			valuePortfolioFn: func(_ uint) (*services.PortfolioSummary, error) {
				return &services.PortfolioSummary{
					Holdings: []services.HoldingValue{
						{Symbol: "AAPL", Name: "Apple Inc", Shares: 7, Price: 150_00, Value: 1_050_00},
					},
					Cash:       8_950_00,
					TotalValue: 10_000_00,
				}, nil
			},
		}
		handler := NewPortfolioHandler(portfolioSvc)
		r := setupPortfolioRouter(handler)

		rec := doRequest(r, "GET", "/portfolio", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_value"] != float64(10_000_00) {
			t.Errorf("expected total_value 1000000, got %v", result["total_value"])
		}
		holdings := result["holdings"].([]interface{})
		if len(holdings) != 1 {
			t.Fatalf("expected 1 holding, got %d", len(holdings))
		}
		line := holdings[0].(map[string]interface{})
		if line["value"] != float64(1_050_00) {
			t.Errorf("expected value 105000, got %v", line["value"])
		}
	})

	t.Run("returns empty holdings for new user", func(t *testing.T) {
		portfolioSvc := &mockPortfolioService{
			valuePortfolioFn: func(_ uint) (*services.PortfolioSummary, error) {
				return &services.PortfolioSummary{
					Holdings:   []services.HoldingValue{},
					Cash:       10_000_00,
					TotalValue: 10_000_00,
				}, nil
			},
		}
		handler := NewPortfolioHandler(portfolioSvc)
		r := setupPortfolioRouter(handler)

		rec := doRequest(r, "GET", "/portfolio", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		holdings, ok := result["holdings"].([]interface{})
		if !ok {
			t.Fatalf("expected holdings array, got %v", result["holdings"])
		}
		if len(holdings) != 0 {
			t.Errorf("expected no holdings, got %d", len(holdings))
		}
	})

	t.Run("returns 502 when quotes unavailable", func(t *testing.T) {
		portfolioSvc := &mockPortfolioService{
			valuePortfolioFn: func(_ uint) (*services.PortfolioSummary, error) {
				return nil, apperrors.ErrQuoteUnavailable
			},
		}
		handler := NewPortfolioHandler(portfolioSvc)
		r := setupPortfolioRouter(handler)

		rec := doRequest(r, "GET", "/portfolio", "")

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "QUOTE_UNAVAILABLE")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewPortfolioHandler(&mockPortfolioService{})
		r := gin.New()
		r.GET("/portfolio", handler.GetPortfolio)

		rec := doRequest(r, "GET", "/portfolio", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
