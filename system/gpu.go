package system

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// GPUInfo describes one NVIDIA device, useful when Ollama shares the host.
type GPUInfo struct {
	Utilization float64 `json:"utilization"`
	MemoryUsed  float64 `json:"memory_used_mb"`
	MemoryTotal float64 `json:"memory_total_mb"`
}

// GetGPUInfo queries nvidia-smi for every installed device.
func GetGPUInfo(ctx context.Context) ([]GPUInfo, error) {
	cmd := exec.CommandContext(ctx, "nvidia-smi", "--query-gpu=utilization.gpu,memory.used,memory.total", "--format=csv,noheader,nounits")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("nvidia-smi command failed: %w", err)
	}
	return parseGPUOutput(string(output))
}

func parseGPUOutput(output string) ([]GPUInfo, error) {
	var gpus []GPUInfo
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			return nil, fmt.Errorf("unexpected output format from nvidia-smi: got %d fields, expected 3", len(fields))
		}

		var values [3]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse nvidia-smi field %q: %w", f, err)
			}
			values[i] = v
		}
		gpus = append(gpus, GPUInfo{Utilization: values[0], MemoryUsed: values[1], MemoryTotal: values[2]})
	}
	return gpus, nil
}

// IsNvidiaGPUInstalled reports whether nvidia-smi is on PATH.
func IsNvidiaGPUInstalled() bool {
	_, err := exec.LookPath("nvidia-smi")
	return err == nil
}
