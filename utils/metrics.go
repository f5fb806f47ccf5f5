package utils

import "sync/atomic"

// Metrics holds counters for service operations
var (
	chatTurns      int64
	transcriptions int64
	syntheses      int64
	wsConnections  int64
	failures       int64
	branchCounts   = map[string]*int64{
		"time":           new(int64),
		"greeting":       new(int64),
		"movie_followup": new(int64),
		"preference":     new(int64),
		"movie":          new(int64),
		"generative":     new(int64),
	}
)

// IncrementChatTurns counts one answered turn and the branch that produced it.
func IncrementChatTurns(branch string) {
	atomic.AddInt64(&chatTurns, 1)
	if c, ok := branchCounts[branch]; ok {
		atomic.AddInt64(c, 1)
	}
}

// IncrementTranscriptions atomically increments the transcription counter
func IncrementTranscriptions() {
	atomic.AddInt64(&transcriptions, 1)
}

// IncrementSyntheses atomically increments the synthesis counter
func IncrementSyntheses() {
	atomic.AddInt64(&syntheses, 1)
}

// IncrementWSConnections atomically increments the websocket connection counter
func IncrementWSConnections() {
	atomic.AddInt64(&wsConnections, 1)
}

// IncrementFailures counts requests answered with a 5xx.
func IncrementFailures() {
	atomic.AddInt64(&failures, 1)
}

// GetMetrics returns the current metrics as a map
func GetMetrics() map[string]interface{} {
	branches := make(map[string]int64, len(branchCounts))
	for name, c := range branchCounts {
		branches[name] = atomic.LoadInt64(c)
	}
	return map[string]interface{}{
		"chat_turns":     atomic.LoadInt64(&chatTurns),
		"transcriptions": atomic.LoadInt64(&transcriptions),
		"syntheses":      atomic.LoadInt64(&syntheses),
		"ws_connections": atomic.LoadInt64(&wsConnections),
		"failures":       atomic.LoadInt64(&failures),
		"branches":       branches,
	}
}
