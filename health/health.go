package health

import (
	"context"
	"fmt"
	"time"

	"github.com/EasterCompany/dex-voice-service/services"
	"github.com/EasterCompany/dex-voice-service/system"
)

// checkTimeout bounds every boot-time probe.
const checkTimeout = 3 * time.Second

// GetCollaboratorStatus pings p and returns its status as a formatted string.
// A nil pinger means the collaborator is not configured for this backend.
func GetCollaboratorStatus(ctx context.Context, p services.Pinger) string {
	if p == nil {
		return "`Not Configured`"
	}
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return fmt.Sprintf("**ERROR**: `%v`", err)
	}
	return "**OK**"
}

// GetServiceStatus reports a collaborator that cannot be pinged. It is OK as
// long as construction succeeded.
func GetServiceStatus(svc any) string {
	if svc == nil {
		return "**ERROR**: `Initialization failed`"
	}
	return "**OK**"
}

// GetGPUStatus returns GPU details, or nil when no NVIDIA GPU is present.
func GetGPUStatus(ctx context.Context) ([]system.GPUInfo, error) {
	if !system.IsNvidiaGPUInstalled() {
		return nil, nil
	}

	info, err := system.GetGPUInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("**ERROR**: `%v`", err)
	}
	return info, nil
}

// GetFormattedGPUs returns one line per GPU, prefixed by a heading.
func GetFormattedGPUs(gpus []system.GPUInfo) []string {
	if len(gpus) == 0 {
		return nil
	}
	lines := []string{"**GPUs**"}
	for i, g := range gpus {
		lines = append(lines, fmt.Sprintf("🎮 GPU %d: `%.0f%%` util, `%.0f/%.0f MiB`", i, g.Utilization, g.MemoryUsed, g.MemoryTotal))
	}
	return lines
}
