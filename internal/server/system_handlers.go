package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/runwaylabs/sovereign/internal/di"
)

// SystemHandlers serves health, system status, database stats and job
// trigger endpoints.
type SystemHandlers struct {
	container *di.Container
	startedAt time.Time
	log       zerolog.Logger
}

// NewSystemHandlers creates the system handlers.
func NewSystemHandlers(container *di.Container, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		container: container,
		startedAt: time.Now(),
		log:       log.With().Str("handler", "system").Logger(),
	}
}

// RegisterRoutes registers all system routes.
func (h *SystemHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Route("/system", func(r chi.Router) {
		r.Get("/status", h.HandleStatus)
		r.Get("/databases", h.HandleDatabaseStats)
	})
	r.Post("/jobs/{name}/trigger", h.HandleTriggerJob)
}

// HandleHealth handles GET /api/health.
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	// A failing ping on either database means the service cannot do
	// useful work; report unhealthy so orchestration restarts us.
	if err := h.container.ConfigDB.Conn().Ping(); err != nil {
		writeError(w, h.log, http.StatusServiceUnavailable, "config database unavailable")
		return
	}
	if err := h.container.HistoryDB.Conn().Ping(); err != nil {
		writeError(w, h.log, http.StatusServiceUnavailable, "history database unavailable")
		return
	}
	writeJSON(w, h.log, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleStatus handles GET /api/system/status.
func (h *SystemHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	cpuPct, memPct := h.systemStats()

	writeJSON(w, h.log, http.StatusOK, map[string]interface{}{
		"uptime_seconds":    int64(time.Since(h.startedAt).Seconds()),
		"cpu_percent":       cpuPct,
		"memory_percent":    memPct,
		"event_subscribers": h.container.EventBus.SubscriberCount(),
		"jobs":              h.container.Scheduler.JobNames(),
	})
}

// HandleDatabaseStats handles GET /api/system/databases.
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, map[string]interface{}{
		"databases": []map[string]interface{}{
			{"name": h.container.ConfigDB.Name(), "size_bytes": h.container.ConfigDB.SizeBytes()},
			{"name": h.container.HistoryDB.Name(), "size_bytes": h.container.HistoryDB.SizeBytes()},
		},
	})
}

// HandleTriggerJob handles POST /api/jobs/{name}/trigger.
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.container.Scheduler.TriggerNow(name); err != nil {
		writeError(w, h.log, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, h.log, http.StatusAccepted, map[string]string{"triggered": name})
}

// systemStats returns CPU and RAM usage percentages. A short sampling
// interval keeps the status endpoint responsive for the dashboard poller.
func (h *SystemHandlers) systemStats() (float64, float64) {
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
