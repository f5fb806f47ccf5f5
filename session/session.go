package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxHistory is the number of turns a session keeps.
const MaxHistory = 12

// ErrNotFound is returned by lookups for an ID the store does not hold.
var ErrNotFound = errors.New("session not found")

// Role identifies who spoke a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one line of the conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Session is a snapshot of one conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	History   []Turn    `json:"history"`
	LastReco  string    `json:"last_reco,omitempty"`
}

// Store persists sessions. Implementations update the *Session they are
// handed so callers always see their own writes.
type Store interface {
	// GetOrCreate returns the session for id. An empty or unknown id starts a
	// new session under a freshly minted ID.
	GetOrCreate(ctx context.Context, id string) (*Session, error)
	// PushTurn appends a turn and drops everything but the last MaxHistory.
	PushTurn(ctx context.Context, s *Session, role Role, text string) error
	// SetLastReco records the most recently recommended title.
	SetLastReco(ctx context.Context, s *Session, title string) error
	// Get returns a stored session without creating one.
	Get(ctx context.Context, id string) (*Session, error)
	// Count reports how many sessions are held.
	Count(ctx context.Context) (int, error)
	Close() error
}

// NewID returns the first 12 hex digits of a random UUID.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func newSession(now time.Time) *Session {
	return &Session{ID: NewID(), CreatedAt: now, History: []Turn{}}
}

// push appends t and truncates to the most recent MaxHistory turns.
func (s *Session) push(t Turn) {
	s.History = append(s.History, t)
	if n := len(s.History); n > MaxHistory {
		s.History = append([]Turn(nil), s.History[n-MaxHistory:]...)
	}
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.History = append([]Turn{}, s.History...)
	return &c
}

// LastText returns the text of the most recent turn by role, skipping the
// first skip matches. The second result is false when there is none.
func (s *Session) LastText(role Role, skip int) (string, bool) {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role != role {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		return s.History[i].Text, true
	}
	return "", false
}
