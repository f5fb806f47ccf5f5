package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/EasterCompany/dex-voice-service/config"
	"github.com/EasterCompany/dex-voice-service/llm"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
)

// modelChecker is satisfied by *llm.OllamaClient.
type modelChecker interface {
	HasModel(ctx context.Context) (bool, error)
}

func main() {
	fmt.Printf("%s--- Dexter Voice Model Maker ---%s\n", ColorBlue, ColorReset)

	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("%s[FATAL]%s Failed to load config: %v\n", ColorRed, ColorReset, err)
		os.Exit(1)
	}
	if cfg.LLM.Backend != "ollama" {
		fmt.Printf("%s[SKIP]%s llm.backend is %q, nothing to pull.\n", ColorYellow, ColorReset, cfg.LLM.Backend)
		return
	}

	client := llm.NewOllamaClient(cfg.LLM.URL, cfg.LLM.Model, 30*time.Second)
	fmt.Printf("\n%sVerifying model '%s'%s...\n", ColorBlue, cfg.LLM.Model, ColorReset)
	if err := ensureModel(context.Background(), client, cfg.LLM.Model, runOllamaCommand); err != nil {
		fmt.Printf("%s[ERROR]%s Failed to prepare model: %v\n", ColorRed, ColorReset, err)
		os.Exit(1)
	}
	fmt.Printf("%s[SUCCESS]%s Model '%s' is ready.\n", ColorGreen, ColorReset, cfg.LLM.Model)

	fmt.Printf("\n%s--- Model Maker Finished ---%s\n", ColorBlue, ColorReset)
}

// ensureModel pulls model unless the server already has it.
func ensureModel(ctx context.Context, checker modelChecker, model string, run func(args ...string) error) error {
	ok, err := checker.HasModel(ctx)
	if err != nil {
		fmt.Printf("  %s[WARN]%s Could not list local models: %v\n", ColorYellow, ColorReset, err)
	}
	if ok {
		fmt.Printf("  %s[OK]%s Model '%s' already present.\n", ColorGreen, ColorReset, model)
		return nil
	}

	fmt.Printf("  %s[INFO]%s Pulling model '%s'...\n", ColorBlue, ColorReset, model)
	if err := run("pull", model); err != nil {
		return fmt.Errorf("failed to pull model '%s': %w", model, err)
	}
	fmt.Printf("  %s[OK]%s Model '%s' pulled.\n", ColorGreen, ColorReset, model)
	return nil
}

func runOllamaCommand(args ...string) error {
	cmd := exec.Command("ollama", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var errorMsg strings.Builder
		errorMsg.WriteString(fmt.Sprintf("ollama command failed: %v", err))
		if stdout.Len() > 0 {
			errorMsg.WriteString(fmt.Sprintf("\nStdout: %s", stdout.String()))
		}
		if stderr.Len() > 0 {
			errorMsg.WriteString(fmt.Sprintf("\nStderr: %s", stderr.String()))
		}
		return errors.New(errorMsg.String())
	}
	if stdout.Len() > 0 {
		fmt.Printf("%s", stdout.String())
	}
	return nil
}
