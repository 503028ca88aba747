package formulas

import "math"

// PortfolioMetrics is the flat record consumed by reporting code.
// Field names and units are part of the public contract.
type PortfolioMetrics struct {
	TotalReturn       float64 `json:"totalReturn" msgpack:"totalReturn"`             // percent
	AnnualizedReturn  float64 `json:"annualizedReturn" msgpack:"annualizedReturn"`   // percent
	Volatility        float64 `json:"volatility" msgpack:"volatility"`               // percent, annualized
	SharpeRatio       float64 `json:"sharpeRatio" msgpack:"sharpeRatio"`             // ratio
	SortinoRatio      float64 `json:"sortinoRatio" msgpack:"sortinoRatio"`           // ratio
	MaxDrawdown       float64 `json:"maxDrawdown" msgpack:"maxDrawdown"`             // percent, positive magnitude
	InformationRatio  float64 `json:"informationRatio" msgpack:"informationRatio"`   // ratio
	CalmarRatio       float64 `json:"calmarRatio" msgpack:"calmarRatio"`             // ratio
	VaR95             float64 `json:"var95" msgpack:"var95"`                         // percent
	ExpectedShortfall float64 `json:"expectedShortfall" msgpack:"expectedShortfall"` // percent
	Beta              float64 `json:"beta" msgpack:"beta"`                           // unitless
	Alpha             float64 `json:"alpha" msgpack:"alpha"`                         // percent
}

// MetricsOptions configures CalculatePortfolioMetrics.
// Zero Years or Confidence fall back to DefaultYears and DefaultConfidence;
// RiskFreeRate is used as given, start from DefaultMetricsOptions to keep the default.
type MetricsOptions struct {
	Years        float64
	RiskFreeRate float64
	Confidence   float64
}

// DefaultMetricsOptions returns the defaults used by the dashboard.
func DefaultMetricsOptions() MetricsOptions {
	return MetricsOptions{
		Years:        DefaultYears,
		RiskFreeRate: DefaultRiskFreeRate,
		Confidence:   DefaultConfidence,
	}
}

func (o MetricsOptions) withDefaults() MetricsOptions {
	if o.Years == 0 {
		o.Years = DefaultYears
	}
	if o.Confidence == 0 {
		o.Confidence = DefaultConfidence
	}
	return o
}

// CalculatePortfolioMetrics computes the full metrics record in one pass.
//
// Total return is read from the first and last price. Beta, alpha and the
// information ratio keep their neutral values (1, 0, 0) unless benchmarkReturns
// is non-nil; an empty non-nil benchmark still counts as supplied.
//
// The benchmark total return used for alpha is taken from the first and last
// benchmark observations, the same way totalReturn reads the price series.
func CalculatePortfolioMetrics(returns, prices, benchmarkReturns []float64, opts MetricsOptions) PortfolioMetrics {
	opts = opts.withDefaults()

	totalReturn := CalculateTotalReturn(prices)
	annualizedReturn := CalculateAnnualizedReturn(totalReturn, opts.Years)
	volatility := CalculateVolatility(returns)
	maxDrawdown := CalculateMaxDrawdown(prices)

	metrics := PortfolioMetrics{
		TotalReturn:       totalReturn,
		AnnualizedReturn:  annualizedReturn,
		Volatility:        volatility,
		SharpeRatio:       CalculateSharpeRatio(annualizedReturn, volatility, opts.RiskFreeRate),
		SortinoRatio:      CalculateSortinoRatio(returns, opts.RiskFreeRate),
		MaxDrawdown:       maxDrawdown,
		CalmarRatio:       CalculateCalmarRatio(annualizedReturn, maxDrawdown),
		VaR95:             CalculateVaR(returns, opts.Confidence),
		ExpectedShortfall: CalculateExpectedShortfall(returns, opts.Confidence),
		Beta:              1,
		Alpha:             0,
		InformationRatio:  0,
	}

	if benchmarkReturns != nil {
		metrics.Beta = CalculateBeta(returns, benchmarkReturns)
		benchmarkReturn := CalculateAnnualizedReturn(CalculateTotalReturn(benchmarkReturns), opts.Years)
		metrics.Alpha = CalculateAlpha(annualizedReturn, benchmarkReturn, metrics.Beta, opts.RiskFreeRate)
		metrics.InformationRatio = CalculateInformationRatio(returns, benchmarkReturns)
	}

	return metrics
}

// NonFinite lists the JSON names of fields holding NaN or an infinity.
func (m PortfolioMetrics) NonFinite() []string {
	var fields []string
	for _, f := range m.Fields() {
		if math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
			fields = append(fields, f.Name)
		}
	}
	return fields
}

// NamedValue is a single named metric.
type NamedValue struct {
	Name  string
	Value float64
}

// Fields returns the record as an ordered name/value list, in report order.
func (m PortfolioMetrics) Fields() []NamedValue {
	return []NamedValue{
		{"totalReturn", m.TotalReturn},
		{"annualizedReturn", m.AnnualizedReturn},
		{"volatility", m.Volatility},
		{"sharpeRatio", m.SharpeRatio},
		{"sortinoRatio", m.SortinoRatio},
		{"maxDrawdown", m.MaxDrawdown},
		{"informationRatio", m.InformationRatio},
		{"calmarRatio", m.CalmarRatio},
		{"var95", m.VaR95},
		{"expectedShortfall", m.ExpectedShortfall},
		{"beta", m.Beta},
		{"alpha", m.Alpha},
	}
}
