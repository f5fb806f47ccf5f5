package services

import (
	"context"
	"sync"
	"time"

	logger "github.com/EasterCompany/dex-voice-service/log"
	"go.uber.org/zap"
)

// Status values reported for a collaborator.
const (
	StatusOK      = "OK"
	StatusBad     = "BAD"
	StatusUnknown = "N/A"
)

// ServiceStatus represents the health status of a collaborator
type ServiceStatus struct {
	Name         string    `json:"name"`
	Status       string    `json:"status"` // OK, BAD, N/A
	Error        string    `json:"error,omitempty"`
	LastCheck    time.Time `json:"last_check"`
	ResponseTime int64     `json:"response_time"` // milliseconds
}

// HealthChecker periodically pings the collaborators the service depends on
type HealthChecker struct {
	mu            sync.RWMutex
	services      map[string]*ServiceStatus
	pingers       map[string]Pinger
	checkInterval time.Duration
	timeout       time.Duration
}

// NewHealthChecker creates a new service health checker
func NewHealthChecker(checkInterval time.Duration) *HealthChecker {
	return &HealthChecker{
		services:      make(map[string]*ServiceStatus),
		pingers:       make(map[string]Pinger),
		checkInterval: checkInterval,
		timeout:       2 * time.Second, // Fast timeout for health checks
	}
}

// RegisterService adds a collaborator to monitor
func (hc *HealthChecker) RegisterService(name string, p Pinger) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.pingers[name] = p
	hc.services[name] = &ServiceStatus{
		Name:      name,
		Status:    StatusUnknown,
		LastCheck: time.Now(),
	}

	logger.Debug("registered health check", zap.String("service", name))
}

// Run checks every registered collaborator until ctx is done.
func (hc *HealthChecker) Run(ctx context.Context) {
	// Immediate first check
	hc.CheckAll(ctx)

	ticker := time.NewTicker(hc.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			hc.CheckAll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// CheckAll pings every registered collaborator concurrently and waits for the results.
func (hc *HealthChecker) CheckAll(ctx context.Context) {
	hc.mu.RLock()
	pingers := make(map[string]Pinger, len(hc.pingers))
	for name, p := range hc.pingers {
		pingers[name] = p
	}
	hc.mu.RUnlock()

	var wg sync.WaitGroup
	for name, p := range pingers {
		wg.Add(1)
		go func(name string, p Pinger) {
			defer wg.Done()
			hc.checkService(ctx, name, p)
		}(name, p)
	}
	wg.Wait()
}

// checkService pings a single collaborator
func (hc *HealthChecker) checkService(ctx context.Context, name string, p Pinger) {
	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	startTime := time.Now()
	err := p.Ping(ctx)
	responseTime := time.Since(startTime).Milliseconds()

	hc.mu.Lock()
	defer hc.mu.Unlock()

	status := hc.services[name]
	status.LastCheck = time.Now()
	status.ResponseTime = responseTime

	if err != nil {
		if status.Status != StatusBad {
			logger.Warn("collaborator offline", zap.String("service", name), zap.Error(err))
		}
		status.Status = StatusBad
		status.Error = err.Error()
		return
	}
	if status.Status == StatusBad {
		logger.Info("collaborator recovered", zap.String("service", name), zap.Int64("response_ms", responseTime))
	}
	status.Status = StatusOK
	status.Error = ""
}

// GetServiceStatus returns the current status of a collaborator
func (hc *HealthChecker) GetServiceStatus(name string) *ServiceStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	if status, ok := hc.services[name]; ok {
		statusCopy := *status
		return &statusCopy
	}
	return nil
}

// GetAllServices returns status of all collaborators
func (hc *HealthChecker) GetAllServices() map[string]*ServiceStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	servicesCopy := make(map[string]*ServiceStatus)
	for name, status := range hc.services {
		statusCopy := *status
		servicesCopy[name] = &statusCopy
	}
	return servicesCopy
}

// GetStatusEmoji returns an emoji indicator for service status
func GetStatusEmoji(status string) string {
	switch status {
	case StatusOK:
		return "✅"
	case StatusBad:
		return "❌"
	default:
		return "❓"
	}
}
