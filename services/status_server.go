package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	logger "github.com/EasterCompany/dex-voice-service/log"
	"github.com/EasterCompany/dex-voice-service/system"
	"github.com/EasterCompany/dex-voice-service/utils"
)

// StatusServer serves the /status, /health and /services endpoints
type StatusServer struct {
	startTime     time.Time
	name          string
	healthChecker *HealthChecker
	sessionCount  func(ctx context.Context) (int, error)
}

// NewStatusServer creates a new status server. sessionCount may be nil.
func NewStatusServer(name string, healthChecker *HealthChecker, sessionCount func(ctx context.Context) (int, error)) *StatusServer {
	return &StatusServer{
		startTime:     time.Now(),
		name:          name,
		healthChecker: healthChecker,
		sessionCount:  sessionCount,
	}
}

// HandleStatus returns detailed service status
func (ss *StatusServer) HandleStatus(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(ss.startTime)

	metrics := utils.GetMetrics()
	if ss.sessionCount != nil {
		if n, err := ss.sessionCount(r.Context()); err == nil {
			metrics["sessions"] = n
		}
	}

	status := map[string]interface{}{
		"service":   ss.name,
		"status":    ss.overall(),
		"version":   utils.GetVersion(),
		"uptime":    uptime.Round(time.Second).String(),
		"timestamp": time.Now().Format(time.RFC3339),
		"metrics":   metrics,
		"system":    system.Collect(),
		"services":  ss.healthChecker.GetAllServices(),
	}

	writeStatusJSON(w, status)
}

// HandleHealth returns simple health check (for load balancers)
func (ss *StatusServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeStatusJSON(w, map[string]string{"status": "ok"})
}

// HandleServices returns status of all monitored collaborators
func (ss *StatusServer) HandleServices(w http.ResponseWriter, r *http.Request) {
	services := ss.healthChecker.GetAllServices()
	writeStatusJSON(w, map[string]interface{}{
		"services": services,
		"count":    len(services),
	})
}

// overall is "degraded" as soon as one collaborator is BAD.
func (ss *StatusServer) overall() string {
	for _, s := range ss.healthChecker.GetAllServices() {
		if s.Status == StatusBad {
			return "degraded"
		}
	}
	return "operational"
}

func writeStatusJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("error encoding status", err)
	}
}
