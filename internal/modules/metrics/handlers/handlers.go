// Package handlers provides HTTP handlers for risk and performance metrics.
package handlers

import (
	"errors"
	"net/http"

	"github.com/aristath/advisor/internal/api"
	"github.com/aristath/advisor/internal/encoding"
	"github.com/aristath/advisor/internal/modules/metrics"
	"github.com/aristath/advisor/pkg/formulas"
	"github.com/rs/zerolog"
)

// Handler handles metrics HTTP requests
type Handler struct {
	service   *metrics.Service
	validator *api.Validator
	respond   api.Responder
	log       zerolog.Logger
}

// NewHandler creates a new metrics handler
func NewHandler(service *metrics.Service, validator *api.Validator, log zerolog.Logger) *Handler {
	l := log.With().Str("handler", "metrics").Logger()
	return &Handler{
		service:   service,
		validator: validator,
		respond:   api.NewResponder(l),
		log:       l,
	}
}

// ReturnsRequest carries a single daily return series.
type ReturnsRequest struct {
	Returns []float64 `json:"returns" validate:"required,min=2"`
}

// SortinoRequest is the input of the Sortino ratio.
type SortinoRequest struct {
	Returns      []float64 `json:"returns" validate:"required,min=1"`
	RiskFreeRate *float64  `json:"riskFreeRate,omitempty"`
}

// SharpeRequest is the input of the Sharpe ratio.
type SharpeRequest struct {
	AnnualizedReturn float64  `json:"annualizedReturn"`
	Volatility       float64  `json:"volatility"`
	RiskFreeRate     *float64 `json:"riskFreeRate,omitempty"`
}

// PricesRequest carries a price series.
type PricesRequest struct {
	Prices []float64 `json:"prices" validate:"required,min=1"`
}

// TailRequest is the input of VaR and Expected Shortfall.
type TailRequest struct {
	Returns    []float64 `json:"returns" validate:"required,min=1"`
	Confidence *float64  `json:"confidence,omitempty" validate:"omitempty,gt=0,lt=1"`
}

// PairRequest carries a portfolio and benchmark series.
type PairRequest struct {
	Returns          []float64 `json:"returns" validate:"required,min=2"`
	BenchmarkReturns []float64 `json:"benchmarkReturns" validate:"required,min=2"`
}

// AlphaRequest is the input of Jensen's alpha.
type AlphaRequest struct {
	PortfolioReturn float64  `json:"portfolioReturn"`
	BenchmarkReturn float64  `json:"benchmarkReturn"`
	Beta            float64  `json:"beta"`
	RiskFreeRate    *float64 `json:"riskFreeRate,omitempty"`
}

// CalmarRequest is the input of the Calmar ratio.
type CalmarRequest struct {
	AnnualizedReturn float64 `json:"annualizedReturn"`
	MaxDrawdown      float64 `json:"maxDrawdown"`
}

// CorrelationRequest carries two series to correlate.
type CorrelationRequest struct {
	A []float64 `json:"a" validate:"required,min=2"`
	B []float64 `json:"b" validate:"required,min=2"`
}

// AnnualizedReturnRequest converts a total return to an annual rate.
type AnnualizedReturnRequest struct {
	TotalReturn float64  `json:"totalReturn"`
	Years       *float64 `json:"years,omitempty" validate:"omitempty,gt=0"`
}

// RollingVolatilityRequest is the input of the rolling volatility chart.
type RollingVolatilityRequest struct {
	Returns []float64 `json:"returns" validate:"required,min=2"`
	Window  int       `json:"window" validate:"required,gte=2"`
}

// DeflatedSharpeRequest is the input of the Deflated Sharpe ratio.
type DeflatedSharpeRequest struct {
	Returns []float64 `json:"returns" validate:"required,min=2"`
	Trials  int       `json:"trials" validate:"omitempty,gte=1"`
}

// StrategyResult is one entry of a comparison response.
type StrategyResult struct {
	Name    string                    `json:"name"`
	Metrics map[string]encoding.Float `json:"metrics"`
}

// HandlePortfolio handles POST /api/metrics/portfolio
func (h *Handler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	var req metrics.PortfolioRequest
	if !h.decode(w, r, &req) {
		return
	}

	m := h.service.Portfolio(req)
	h.respond.OK(w, r, encoding.MetricsView(m), m.NonFinite()...)
}

// HandleCompare handles POST /api/metrics/compare
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var req metrics.CompareRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Compare(req)
	if err != nil {
		h.respond.BadRequest(w, r, err.Error())
		return
	}

	strategies := make([]StrategyResult, len(result.Strategies))
	var nonFinite []string
	for i, st := range result.Strategies {
		strategies[i] = StrategyResult{Name: st.Name, Metrics: encoding.MetricsView(st.Metrics)}
		for _, field := range st.Metrics.NonFinite() {
			nonFinite = append(nonFinite, st.Name+"."+field)
		}
	}

	correlation := make([][]encoding.Float, len(result.Correlation))
	for i, row := range result.Correlation {
		correlation[i] = encoding.Floats(row)
	}

	h.respond.OK(w, r, map[string]interface{}{
		"strategies":  strategies,
		"correlation": correlation,
	}, nonFinite...)
}

// HandleVolatility handles POST /api/metrics/volatility
func (h *Handler) HandleVolatility(w http.ResponseWriter, r *http.Request) {
	var req ReturnsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.scalar(w, r, "volatility", h.service.Volatility(req.Returns))
}

// HandleSharpe handles POST /api/metrics/sharpe
func (h *Handler) HandleSharpe(w http.ResponseWriter, r *http.Request) {
	var req SharpeRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.scalar(w, r, "sharpeRatio", h.service.Sharpe(req.AnnualizedReturn, req.Volatility, req.RiskFreeRate))
}

// HandleSortino handles POST /api/metrics/sortino
func (h *Handler) HandleSortino(w http.ResponseWriter, r *http.Request) {
	var req SortinoRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.scalar(w, r, "sortinoRatio", h.service.Sortino(req.Returns, req.RiskFreeRate))
}

// HandleMaxDrawdown handles POST /api/metrics/max-drawdown
func (h *Handler) HandleMaxDrawdown(w http.ResponseWriter, r *http.Request) {
	var req PricesRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond.OK(w, r, formulas.CalculateDrawdownMetrics(req.Prices))
}

// HandleDrawdownSeries handles POST /api/metrics/drawdown-series
func (h *Handler) HandleDrawdownSeries(w http.ResponseWriter, r *http.Request) {
	var req PricesRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond.OK(w, r, map[string]interface{}{
		"drawdown": encoding.Floats(formulas.CalculateDrawdownSeries(req.Prices)),
	})
}

// HandleVaR handles POST /api/metrics/var
func (h *Handler) HandleVaR(w http.ResponseWriter, r *http.Request) {
	var req TailRequest
	if !h.decode(w, r, &req) {
		return
	}
	value, confidence := h.service.VaR(req.Returns, req.Confidence)
	h.tail(w, r, "var", value, confidence)
}

// HandleExpectedShortfall handles POST /api/metrics/expected-shortfall
func (h *Handler) HandleExpectedShortfall(w http.ResponseWriter, r *http.Request) {
	var req TailRequest
	if !h.decode(w, r, &req) {
		return
	}
	value, confidence := h.service.ExpectedShortfall(req.Returns, req.Confidence)
	h.tail(w, r, "expectedShortfall", value, confidence)
}

// HandleBeta handles POST /api/metrics/beta
func (h *Handler) HandleBeta(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.scalar(w, r, "beta", formulas.CalculateBeta(req.Returns, req.BenchmarkReturns))
}

// HandleAlpha handles POST /api/metrics/alpha
func (h *Handler) HandleAlpha(w http.ResponseWriter, r *http.Request) {
	var req AlphaRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.scalar(w, r, "alpha", h.service.Alpha(req.PortfolioReturn, req.BenchmarkReturn, req.Beta, req.RiskFreeRate))
}

// HandleInformationRatio handles POST /api/metrics/information-ratio
func (h *Handler) HandleInformationRatio(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.scalar(w, r, "informationRatio", formulas.CalculateInformationRatio(req.Returns, req.BenchmarkReturns))
}

// HandleCalmar handles POST /api/metrics/calmar
func (h *Handler) HandleCalmar(w http.ResponseWriter, r *http.Request) {
	var req CalmarRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.scalar(w, r, "calmarRatio", formulas.CalculateCalmarRatio(req.AnnualizedReturn, req.MaxDrawdown))
}

// HandleCorrelation handles POST /api/metrics/correlation
func (h *Handler) HandleCorrelation(w http.ResponseWriter, r *http.Request) {
	var req CorrelationRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.scalar(w, r, "correlation", formulas.CalculateCorrelation(req.A, req.B))
}

// HandleAnnualizedReturn handles POST /api/metrics/annualized-return
func (h *Handler) HandleAnnualizedReturn(w http.ResponseWriter, r *http.Request) {
	var req AnnualizedReturnRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.scalar(w, r, "annualizedReturn", h.service.AnnualizedReturn(req.TotalReturn, req.Years))
}

// HandleRollingVolatility handles POST /api/metrics/rolling-volatility
func (h *Handler) HandleRollingVolatility(w http.ResponseWriter, r *http.Request) {
	var req RollingVolatilityRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Window > len(req.Returns) {
		h.respond.BadRequest(w, r, "window must not exceed the number of returns")
		return
	}

	h.respond.OK(w, r, map[string]interface{}{
		"window":     req.Window,
		"volatility": encoding.Floats(formulas.CalculateRollingVolatility(req.Returns, req.Window)),
	})
}

// HandleDeflatedSharpe handles POST /api/metrics/deflated-sharpe
func (h *Handler) HandleDeflatedSharpe(w http.ResponseWriter, r *http.Request) {
	var req DeflatedSharpeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Trials == 0 {
		req.Trials = 1
	}

	dsr, err := formulas.CalculateDeflatedSharpeRatio(req.Returns, req.Trials)
	if err != nil {
		if errors.Is(err, formulas.ErrInsufficientData) || errors.Is(err, formulas.ErrDegenerateSharpe) {
			h.respond.BadRequest(w, r, err.Error())
			return
		}
		h.respond.Error(w, r, err)
		return
	}

	h.respond.OK(w, r, map[string]interface{}{
		"deflatedSharpe": encoding.Float(dsr),
		"trials":         req.Trials,
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := h.validator.Decode(r, dst); err != nil {
		h.log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected request")
		h.respond.Error(w, r, err)
		return false
	}
	return true
}

func (h *Handler) scalar(w http.ResponseWriter, r *http.Request, name string, value float64) {
	h.respond.OK(w, r, map[string]encoding.Float{name: encoding.Float(value)}, nonFinite(name, value)...)
}

func (h *Handler) tail(w http.ResponseWriter, r *http.Request, name string, value, confidence float64) {
	h.respond.OK(w, r, map[string]encoding.Float{
		name:         encoding.Float(value),
		"confidence": encoding.Float(confidence),
	}, nonFinite(name, value)...)
}

func nonFinite(name string, value float64) []string {
	if encoding.Float(value).IsFinite() {
		return nil
	}
	return []string{name}
}
