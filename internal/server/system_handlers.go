package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/advisor/internal/scheduler"
)

// SystemStatusResponse is returned by GET /api/system/status
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	StartedAt     string  `json:"started_at"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	GoVersion     string  `json:"go_version"`
	Goroutines    int     `json:"goroutines"`
	CPUPercent    float64 `json:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent"`
}

// JobStatus is one scheduled job in GET /api/system/jobs
type JobStatus struct {
	Name    string `json:"name"`
	NextRun string `json:"next_run,omitempty"`
	scheduler.RunStatus
}

// SystemHandlers handles system monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	scheduler   *scheduler.Scheduler

	// overridable in tests
	statsFunc func() (float64, float64)
}

// NewSystemHandlers creates a new system handlers instance. sched may be nil.
func NewSystemHandlers(log zerolog.Logger, sched *scheduler.Scheduler) *SystemHandlers {
	h := &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		startupTime: time.Now(),
		scheduler:   sched,
	}
	h.statsFunc = h.getSystemStats
	return h
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.statsFunc()

	writeJSON(w, http.StatusOK, SystemStatusResponse{
		Status:        "ok",
		StartedAt:     h.startupTime.Format(time.RFC3339),
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
	}, h.log)
}

// HandleJobsStatus handles GET /api/system/jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	jobs := []JobStatus{}
	if h.scheduler != nil {
		for _, name := range h.scheduler.Jobs() {
			job := JobStatus{Name: name}
			if status, ok := h.scheduler.Status(name); ok {
				job.RunStatus = status
			}
			if next, ok := h.scheduler.NextRun(name); ok && !next.IsZero() {
				job.NextRun = next.Format(time.RFC3339)
			}
			jobs = append(jobs, job)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs}, h.log)
}

// getSystemStats calculates CPU and RAM usage percentages.
// CPU is sampled over 100ms so the status call stays fast.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
