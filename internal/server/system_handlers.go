package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/stockit/analyzer/internal/modules/universe"
)

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Status       string                `json:"status"`
	UniverseSize int                   `json:"universe_size"`
	MarketCap    universe.FeatureStats `json:"universe_market_cap"`
	Personas     int                   `json:"personas"`
	CacheHealthy bool                  `json:"cache_healthy"`
	CPUPercent   float64               `json:"cpu_percent"`
	RAMPercent   float64               `json:"ram_percent"`
	Goroutines   int                   `json:"goroutines"`
	AllocMB      uint64                `json:"alloc_mb"`
}

// handleSystemStatus reports process and dependency health for the dashboard.
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := getSystemStats()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	cacheHealthy := false
	if s.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		cacheHealthy = s.cache.Ping(ctx) == nil
	}

	response := SystemStatusResponse{
		Status:       "running",
		UniverseSize: s.universe.Size(),
		MarketCap:    s.universe.MarketCapStats(),
		Personas:     len(s.ref.Personas().All()),
		CacheHealthy: cacheHealthy,
		CPUPercent:   cpuPercent,
		RAMPercent:   ramPercent,
		Goroutines:   runtime.NumGoroutine(),
		AllocMB:      m.Alloc / 1024 / 1024,
	}

	s.writeJSON(w, http.StatusOK, response)
}

// getSystemStats samples CPU and RAM usage. Failures degrade to zeros; the
// status endpoint must never error because of a metrics read.
func getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(cpuPercent) == 0 {
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		return cpuPercent[0], 0
	}
	return cpuPercent[0], memStat.UsedPercent
}
