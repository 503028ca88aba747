package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all metrics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/metrics", func(r chi.Router) {
		// Composite and comparison
		r.Post("/portfolio", h.HandlePortfolio)
		r.Post("/compare", h.HandleCompare)

		// Return and risk statistics
		r.Post("/volatility", h.HandleVolatility)
		r.Post("/annualized-return", h.HandleAnnualizedReturn)
		r.Post("/sharpe", h.HandleSharpe)
		r.Post("/sortino", h.HandleSortino)
		r.Post("/calmar", h.HandleCalmar)
		r.Post("/deflated-sharpe", h.HandleDeflatedSharpe)

		// Drawdown
		r.Post("/max-drawdown", h.HandleMaxDrawdown)
		r.Post("/drawdown-series", h.HandleDrawdownSeries)

		// Tail risk
		r.Post("/var", h.HandleVaR)
		r.Post("/expected-shortfall", h.HandleExpectedShortfall)

		// Benchmark relative
		r.Post("/beta", h.HandleBeta)
		r.Post("/alpha", h.HandleAlpha)
		r.Post("/information-ratio", h.HandleInformationRatio)
		r.Post("/correlation", h.HandleCorrelation)

		// Chart series
		r.Post("/rolling-volatility", h.HandleRollingVolatility)
	})
}
