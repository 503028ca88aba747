// Package metrics exposes the risk and performance engine with configured defaults.
package metrics

import (
	"fmt"

	"github.com/aristath/advisor/pkg/formulas"
	"github.com/rs/zerolog"
)

// Params carries the optional engine parameters of a request.
// Nil fields take the service defaults.
type Params struct {
	Years        *float64 `json:"years,omitempty" validate:"omitempty,gt=0"`
	RiskFreeRate *float64 `json:"riskFreeRate,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty" validate:"omitempty,gt=0,lt=1"`
}

// PortfolioRequest is the input of the composite metrics calculation.
type PortfolioRequest struct {
	Returns          []float64 `json:"returns" validate:"required,min=2"`
	Prices           []float64 `json:"prices,omitempty" validate:"omitempty,min=2"`
	BenchmarkReturns []float64 `json:"benchmarkReturns,omitempty"`
	Params
}

// Strategy is one named return series in a comparison.
type Strategy struct {
	Name    string    `json:"name" validate:"required"`
	Returns []float64 `json:"returns" validate:"required,min=2"`
	Prices  []float64 `json:"prices,omitempty" validate:"omitempty,min=2"`
}

// CompareRequest compares several strategies against an optional shared benchmark.
type CompareRequest struct {
	Strategies       []Strategy `json:"strategies" validate:"required,min=1,dive"`
	BenchmarkReturns []float64  `json:"benchmarkReturns,omitempty"`
	Params
}

// StrategyMetrics pairs a strategy name with its metrics.
type StrategyMetrics struct {
	Name    string
	Metrics formulas.PortfolioMetrics
}

// Comparison is the result of Compare. Correlation follows the strategy order.
type Comparison struct {
	Strategies  []StrategyMetrics
	Correlation [][]float64
}

// Service applies configured defaults to engine calls
type Service struct {
	defaults formulas.MetricsOptions
	log      zerolog.Logger
}

// NewService creates a new metrics service
func NewService(defaults formulas.MetricsOptions, log zerolog.Logger) *Service {
	return &Service{
		defaults: defaults,
		log:      log.With().Str("service", "metrics").Logger(),
	}
}

// Defaults returns the configured engine options.
func (s *Service) Defaults() formulas.MetricsOptions {
	return s.defaults
}

// Options resolves request parameters against the defaults.
func (s *Service) Options(p Params) formulas.MetricsOptions {
	opts := s.defaults
	if p.Years != nil {
		opts.Years = *p.Years
	}
	if p.RiskFreeRate != nil {
		opts.RiskFreeRate = *p.RiskFreeRate
	}
	if p.Confidence != nil {
		opts.Confidence = *p.Confidence
	}
	return opts
}

// Portfolio computes the composite metrics record.
// Missing prices are compounded from the returns starting at DefaultStartPrice.
func (s *Service) Portfolio(req PortfolioRequest) formulas.PortfolioMetrics {
	prices := req.Prices
	if len(prices) == 0 {
		prices = formulas.GenerateMockPrices(req.Returns, formulas.DefaultStartPrice)
	}

	m := formulas.CalculatePortfolioMetrics(req.Returns, prices, req.BenchmarkReturns, s.Options(req.Params))

	if nonFinite := m.NonFinite(); len(nonFinite) > 0 {
		s.log.Debug().Strs("fields", nonFinite).Msg("Composite metrics contain non-finite values")
	}
	return m
}

// Compare computes metrics for every strategy and their pairwise return correlation.
func (s *Service) Compare(req CompareRequest) (*Comparison, error) {
	seen := make(map[string]struct{}, len(req.Strategies))
	series := make([][]float64, 0, len(req.Strategies))
	result := &Comparison{Strategies: make([]StrategyMetrics, 0, len(req.Strategies))}

	for _, st := range req.Strategies {
		if _, dup := seen[st.Name]; dup {
			return nil, fmt.Errorf("duplicate strategy name %q", st.Name)
		}
		seen[st.Name] = struct{}{}

		m := s.Portfolio(PortfolioRequest{
			Returns:          st.Returns,
			Prices:           st.Prices,
			BenchmarkReturns: req.BenchmarkReturns,
			Params:           req.Params,
		})
		result.Strategies = append(result.Strategies, StrategyMetrics{Name: st.Name, Metrics: m})
		series = append(series, st.Returns)
	}

	result.Correlation = formulas.CalculateCorrelationMatrix(series)
	return result, nil
}

// Volatility returns the annualized volatility in percent.
func (s *Service) Volatility(returns []float64) float64 {
	return formulas.CalculateVolatility(returns)
}

// Sharpe returns the Sharpe ratio for annualized figures, using the default risk-free rate when rf is nil.
func (s *Service) Sharpe(annualizedReturn, volatility float64, rf *float64) float64 {
	return formulas.CalculateSharpeRatio(annualizedReturn, volatility, s.Options(Params{RiskFreeRate: rf}).RiskFreeRate)
}

// Sortino returns the Sortino ratio of daily returns.
func (s *Service) Sortino(returns []float64, rf *float64) float64 {
	return formulas.CalculateSortinoRatio(returns, s.Options(Params{RiskFreeRate: rf}).RiskFreeRate)
}

// VaR returns the historical Value at Risk and the confidence it was computed at.
func (s *Service) VaR(returns []float64, confidence *float64) (float64, float64) {
	c := s.Options(Params{Confidence: confidence}).Confidence
	return formulas.CalculateVaR(returns, c), c
}

// ExpectedShortfall returns the tail mean beyond VaR and the confidence used.
func (s *Service) ExpectedShortfall(returns []float64, confidence *float64) (float64, float64) {
	c := s.Options(Params{Confidence: confidence}).Confidence
	return formulas.CalculateExpectedShortfall(returns, c), c
}

// Alpha returns Jensen's alpha.
func (s *Service) Alpha(portfolioReturn, benchmarkReturn, beta float64, rf *float64) float64 {
	return formulas.CalculateAlpha(portfolioReturn, benchmarkReturn, beta, s.Options(Params{RiskFreeRate: rf}).RiskFreeRate)
}

// AnnualizedReturn annualizes a total return over years, or the default horizon.
func (s *Service) AnnualizedReturn(totalReturn float64, years *float64) float64 {
	return formulas.CalculateAnnualizedReturn(totalReturn, s.Options(Params{Years: years}).Years)
}

