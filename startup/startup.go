package startup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/EasterCompany/dex-voice-service/health"
	"github.com/EasterCompany/dex-voice-service/llm"
	logger "github.com/EasterCompany/dex-voice-service/log"
	"github.com/EasterCompany/dex-voice-service/services"
	"github.com/EasterCompany/dex-voice-service/system"
	"go.uber.org/zap"
)

// warmupTokens keeps the warm-up generation short.
const warmupTokens = 8

// Warmup runs one tiny generation so the first real turn does not pay for
// model loading. Failures are logged and swallowed.
func Warmup(ctx context.Context, model services.LLMService, params services.GenerateParams) {
	if model == nil {
		return
	}
	params.MaxNewTokens = warmupTokens

	start := time.Now()
	if _, err := model.Generate(ctx, llm.WarmupPrompt, params); err != nil {
		logger.Warn("llm warm-up failed", zap.Error(err))
		return
	}
	logger.Info("llm warm-up complete", zap.Duration("took", time.Since(start)))
}

// Collaborator is one line of the boot report.
type Collaborator struct {
	Name    string
	Backend string
	// Pinger is nil for collaborators that cannot be probed.
	Pinger  services.Pinger
	Service any
}

// Report builds the boot status report, logs it and returns it.
func Report(ctx context.Context, collaborators []Collaborator) string {
	cpuUsage, _ := system.GetCPUUsage()
	memUsage, _ := system.GetMemoryUsage()

	fields := []string{
		"**System Status**",
		fmt.Sprintf("💻 CPU: `%.2f%%`", cpuUsage),
		fmt.Sprintf("🧠 Memory: `%.2f%%`", memUsage),
		"",
		"**Service Status**",
	}

	for _, c := range collaborators {
		var status string
		if c.Pinger != nil {
			status = health.GetCollaboratorStatus(ctx, c.Pinger)
		} else {
			status = health.GetServiceStatus(c.Service)
		}
		fields = append(fields, fmt.Sprintf("🔌 %s (%s): %s", c.Name, c.Backend, status))
		logger.Info("collaborator status", zap.String("name", c.Name), zap.String("backend", c.Backend), zap.String("status", status))
	}

	gpus, err := health.GetGPUStatus(ctx)
	if err != nil {
		logger.Warn("gpu status unavailable", zap.Error(err))
	}
	if lines := health.GetFormattedGPUs(gpus); len(lines) > 0 {
		fields = append(fields, "")
		fields = append(fields, lines...)
	}

	report := strings.Join(fields, "\n")
	logger.Info("system status", zap.Float64("cpu_percent", cpuUsage), zap.Float64("memory_percent", memUsage), zap.String("report", report))
	return report
}
