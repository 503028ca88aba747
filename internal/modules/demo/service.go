// Package demo generates the seeded mock portfolio shown by the dashboard.
package demo

import (
	"sync"
	"time"

	"github.com/aristath/advisor/internal/encoding"
	"github.com/aristath/advisor/internal/events"
	"github.com/aristath/advisor/internal/utils"
	"github.com/aristath/advisor/pkg/formulas"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config controls the generated series
type Config struct {
	Seed      uint64
	Days      int
	AnnualVol float64
	Drift     float64
	Options   formulas.MetricsOptions
}

// Snapshot is one generated demo portfolio with its metrics and chart series.
type Snapshot struct {
	ID                string                    `json:"id"`
	GeneratedAt       time.Time                 `json:"generatedAt"`
	Seed              uint64                    `json:"seed"`
	Days              int                       `json:"days"`
	Returns           []float64                 `json:"returns"`
	Prices            []float64                 `json:"prices"`
	BenchmarkReturns  []float64                 `json:"benchmarkReturns"`
	CumulativeReturns []float64                 `json:"cumulativeReturns"`
	Drawdown          []float64                 `json:"drawdown"`
	Metrics           map[string]encoding.Float `json:"metrics"`
	NonFinite         []string                  `json:"nonFinite,omitempty"`

	raw formulas.PortfolioMetrics
}

// PortfolioMetrics returns the metrics record as computed by the engine.
func (s *Snapshot) PortfolioMetrics() formulas.PortfolioMetrics {
	return s.raw
}

// Service holds the current snapshot in memory
type Service struct {
	cfg Config
	bus *events.Bus
	log zerolog.Logger

	mu        sync.RWMutex
	current   *Snapshot
	refreshes uint64
}

// NewService creates a new demo service. bus may be nil.
func NewService(cfg Config, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		cfg: cfg,
		bus: bus,
		log: log.With().Str("service", "demo").Logger(),
	}
}

// Current returns the latest snapshot, generating the first one on demand.
// Concurrent first callers share a single generated snapshot.
func (s *Service) Current() *Snapshot {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current != nil {
		return current
	}

	s.mu.Lock()
	if s.current != nil {
		current = s.current
		s.mu.Unlock()
		return current
	}
	snapshot, seed := s.generateLocked()
	s.mu.Unlock()

	s.publish(snapshot, seed)
	return snapshot
}

// Refresh generates a new snapshot and publishes it.
// The n-th refresh uses Seed+n, so a restarted service replays the same sequence.
func (s *Service) Refresh() *Snapshot {
	s.mu.Lock()
	snapshot, seed := s.generateLocked()
	s.mu.Unlock()

	s.publish(snapshot, seed)
	return snapshot
}

// generateLocked must be called with mu held for writing.
func (s *Service) generateLocked() (*Snapshot, uint64) {
	done := utils.OperationTimer("demo_refresh", s.log)
	defer done()

	seed := s.cfg.Seed + s.refreshes
	s.refreshes++
	s.current = Generate(s.cfg, seed)
	return s.current, seed
}

func (s *Service) publish(snapshot *Snapshot, seed uint64) {
	s.log.Info().
		Str("snapshot_id", snapshot.ID).
		Uint64("seed", seed).
		Int("days", snapshot.Days).
		Float64("volatility", snapshot.raw.Volatility).
		Msg("Demo snapshot refreshed")

	if s.bus != nil {
		s.bus.Emit("demo", &events.SnapshotRefreshedData{
			SnapshotID: snapshot.ID,
			Seed:       seed,
			Days:       snapshot.Days,
		})
	}
}

// Generate builds a snapshot from a seed. Equal seeds and configs give equal series.
func Generate(cfg Config, seed uint64) *Snapshot {
	src := formulas.NewSeededSource(seed)

	returns := formulas.GenerateMockReturns(src, cfg.Days, cfg.AnnualVol, cfg.Drift)
	benchmark := formulas.GenerateMockReturns(src, cfg.Days, cfg.AnnualVol*0.75, cfg.Drift*0.8)
	prices := formulas.GenerateMockPrices(returns, formulas.DefaultStartPrice)

	m := formulas.CalculatePortfolioMetrics(returns, prices, benchmark, cfg.Options)

	return &Snapshot{
		ID:                uuid.NewString(),
		GeneratedAt:       time.Now().UTC(),
		Seed:              seed,
		Days:              cfg.Days,
		Returns:           returns,
		Prices:            prices,
		BenchmarkReturns:  benchmark,
		CumulativeReturns: formulas.CalculateCumulativeReturns(returns),
		Drawdown:          formulas.CalculateDrawdownSeries(prices),
		Metrics:           encoding.MetricsView(m),
		NonFinite:         m.NonFinite(),
		raw:               m,
	}
}

// RefreshJob regenerates the snapshot on a schedule
type RefreshJob struct {
	service *Service
}

// NewRefreshJob creates a scheduler job for the service
func NewRefreshJob(service *Service) *RefreshJob {
	return &RefreshJob{service: service}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "demo_refresh"
}

// Run executes the job
func (j *RefreshJob) Run() error {
	j.service.Refresh()
	return nil
}
