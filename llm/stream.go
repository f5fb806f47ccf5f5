package llm

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var userTurnRe = regexp.MustCompile(`(?i)\buser\s*:`)

type streamState int

const (
	stateStreaming streamState = iota
	stateFinished
)

// readStream accumulates an Ollama NDJSON stream. It stops early once the
// model starts writing a user line, the rest would be discarded anyway.
func readStream(body io.Reader) (string, error) {
	reader := bufio.NewReader(body)
	var fullContent strings.Builder
	currentState := stateStreaming

	for currentState != stateFinished {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			var chunk OllamaGenerateResponse
			if jsonErr := json.Unmarshal(line, &chunk); jsonErr == nil {
				if chunk.Error != "" {
					return "", fmt.Errorf("ollama error: %s", chunk.Error)
				}
				fullContent.WriteString(chunk.Response)
				if chunk.Done || userTurnRe.MatchString(fullContent.String()) {
					currentState = stateFinished
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("error reading stream: %w", err)
		}
	}

	return fullContent.String(), nil
}
