// Package dialogue decides how the assistant answers one user turn: a canned
// or deterministic reply when a rule matches, the language model otherwise.
package dialogue

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/EasterCompany/dex-voice-service/intent"
	"github.com/EasterCompany/dex-voice-service/llm"
	logger "github.com/EasterCompany/dex-voice-service/log"
	"github.com/EasterCompany/dex-voice-service/services"
	"github.com/EasterCompany/dex-voice-service/session"
	"go.uber.org/zap"
)

// Branch names the rule that produced a reply.
type Branch string

const (
	BranchTime       Branch = "time"
	BranchGreeting   Branch = "greeting"
	BranchFollowup   Branch = "movie_followup"
	BranchPreference Branch = "preference"
	BranchMovie      Branch = "movie"
	BranchGenerative Branch = "generative"
)

// Reply is the outcome of one turn.
type Reply struct {
	Text      string
	SessionID string
	Branch    Branch
}

// Options tune the generative fallback.
type Options struct {
	Params       services.GenerateParams
	HistoryTurns int
	MaxSentences int
	MaxChars     int
}

// DefaultOptions mirrors the stock sampling and shortening settings.
func DefaultOptions() Options {
	return Options{
		Params: services.GenerateParams{
			MaxNewTokens:      60,
			Temperature:       0.4,
			TopP:              0.9,
			RepetitionPenalty: 1.2,
		},
		MaxSentences: 1,
		MaxChars:     90,
	}
}

// Router answers user turns and records them in the session store.
type Router struct {
	store session.Store
	llm   services.LLMService
	opts  Options
	locks *session.KeyedMutex

	now   func() time.Time
	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Router.
type Option func(*Router)

// WithClock replaces the wall clock used by the time branch.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// WithRand replaces the random source used for recommendations and small talk.
func WithRand(rng *rand.Rand) Option {
	return func(r *Router) { r.rng = rng }
}

// NewRouter creates a Router.
func NewRouter(store session.Store, model services.LLMService, opts Options, options ...Option) *Router {
	r := &Router{
		store: store,
		llm:   model,
		opts:  opts,
		locks: session.NewKeyedMutex(),
		now:   time.Now,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, o := range options {
		o(r)
	}
	return r
}

// Respond handles one user turn. Turns for the same session ID run one at a
// time. The only failing paths are the session store and the language model.
func (r *Router) Respond(ctx context.Context, sessionID, text string) (Reply, error) {
	if sessionID != "" {
		unlock := r.locks.Lock(sessionID)
		defer unlock()
	}

	sess, err := r.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return Reply{}, fmt.Errorf("could not resolve session: %w", err)
	}

	userText := strings.TrimSpace(text)
	if err := r.store.PushTurn(ctx, sess, session.RoleUser, userText); err != nil {
		return Reply{SessionID: sess.ID}, fmt.Errorf("could not record user turn: %w", err)
	}

	answer, branch, err := r.route(ctx, sess, userText)
	if err != nil {
		return Reply{SessionID: sess.ID, Branch: branch}, err
	}

	if err := r.store.PushTurn(ctx, sess, session.RoleAssistant, answer); err != nil {
		return Reply{SessionID: sess.ID, Branch: branch}, fmt.Errorf("could not record assistant turn: %w", err)
	}

	logger.Debug("turn answered",
		zap.String("session_id", sess.ID),
		zap.String("branch", string(branch)),
		zap.Int("history", len(sess.History)))

	return Reply{Text: answer, SessionID: sess.ID, Branch: branch}, nil
}

func (r *Router) route(ctx context.Context, sess *session.Session, text string) (string, Branch, error) {
	switch {
	case intent.IsTimeQuestion(text):
		return timeReply(r.now().Format("15:04")), BranchTime, nil

	case intent.IsGreeting(text):
		return GreetingReply, BranchGreeting, nil

	case intent.RefersPreviousMovie(text) && sess.LastReco != "":
		return followupReply(sess.LastReco), BranchFollowup, nil

	case intent.IsPreferenceQuery(text):
		return PreferenceReply, BranchPreference, nil

	case intent.IsMovieIntent(text):
		rec := MoviePool[r.intn(len(MoviePool))]
		if err := r.store.SetLastReco(ctx, sess, rec.Title); err != nil {
			return "", BranchMovie, fmt.Errorf("could not record recommendation: %w", err)
		}
		return movieReply(rec), BranchMovie, nil
	}

	answer, err := r.generate(ctx, sess, text)
	return answer, BranchGenerative, err
}

func (r *Router) generate(ctx context.Context, sess *session.Session, text string) (string, error) {
	// The current user turn is already the last entry.
	prior := sess.History[:len(sess.History)-1]
	prompt, err := llm.BuildPrompt(exchanges(prior, r.opts.HistoryTurns), text)
	if err != nil {
		return "", err
	}

	raw, err := r.llm.Generate(ctx, prompt, r.opts.Params)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	answer := llm.Finalize(raw, r.opts.MaxSentences, r.opts.MaxChars)

	if prev, ok := sess.LastText(session.RoleUser, 1); ok && isSmallTalk(prev) {
		answer = smallTalkReplies[r.intn(len(smallTalkReplies))]
	}

	if prev, ok := sess.LastText(session.RoleAssistant, 0); ok {
		prev = strings.TrimSpace(prev)
		if prev != "" && strings.ToLower(strings.TrimSpace(answer)) == strings.ToLower(prev) {
			answer = RepeatReply
		}
	}
	return answer, nil
}

func (r *Router) intn(n int) int {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.IntN(n)
}

func isSmallTalk(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range smallTalkPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// exchanges pairs each user turn with the assistant turn that directly
// follows it and keeps the last n pairs.
func exchanges(history []session.Turn, n int) []llm.Exchange {
	if n <= 0 {
		return nil
	}
	var pairs []llm.Exchange
	for i := 0; i+1 < len(history); i++ {
		if history[i].Role == session.RoleUser && history[i+1].Role == session.RoleAssistant {
			pairs = append(pairs, llm.Exchange{User: history[i].Text, Assistant: history[i+1].Text})
			i++
		}
	}
	if len(pairs) > n {
		pairs = pairs[len(pairs)-n:]
	}
	return pairs
}
