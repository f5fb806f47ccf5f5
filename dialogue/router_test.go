package dialogue

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/EasterCompany/dex-voice-service/services"
	"github.com/EasterCompany/dex-voice-service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeLLM replays scripted outputs and records every prompt.
type fakeLLM struct {
	mu      sync.Mutex
	outputs []string
	err     error
	prompts []string
	params  []services.GenerateParams
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, params services.GenerateParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.params = append(f.params, params)
	if f.err != nil {
		return "", f.err
	}
	if len(f.outputs) == 0 {
		return "Okay.", nil
	}
	out := f.outputs[0]
	if len(f.outputs) > 1 {
		f.outputs = f.outputs[1:]
	}
	return out, nil
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

func newTestRouter(model *fakeLLM, opts ...Option) (*Router, *session.MemoryStore) {
	store := session.NewMemoryStore()
	clock := func() time.Time { return time.Date(2024, 5, 1, 9, 7, 0, 0, time.Local) }
	all := append([]Option{WithClock(clock), WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	return NewRouter(store, model, DefaultOptions(), all...), store
}

func TestRespond_Time(t *testing.T) {
	model := &fakeLLM{}
	r, _ := newTestRouter(model)

	reply, err := r.Respond(context.Background(), "", "What time is it?")
	require.NoError(t, err)
	assert.Equal(t, "The current time is 09:07.", reply.Text)
	assert.Regexp(t, `^The current time is \d{2}:\d{2}\.$`, reply.Text)
	assert.Equal(t, BranchTime, reply.Branch)
	assert.Empty(t, model.prompts)
}

func TestRespond_TimeUsesWallClockByDefault(t *testing.T) {
	r := NewRouter(session.NewMemoryStore(), &fakeLLM{}, DefaultOptions())
	reply, err := r.Respond(context.Background(), "", "tell me the time")
	require.NoError(t, err)
	assert.Regexp(t, `^The current time is \d{2}:\d{2}\.$`, reply.Text)
}

func TestRespond_Greeting(t *testing.T) {
	r, store := newTestRouter(&fakeLLM{})

	reply, err := r.Respond(context.Background(), "", "  hi  ")
	require.NoError(t, err)
	assert.Equal(t, GreetingReply, reply.Text)
	assert.Equal(t, BranchGreeting, reply.Branch)

	sess, err := store.Get(context.Background(), reply.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []session.Turn{
		{Role: session.RoleUser, Text: "hi"},
		{Role: session.RoleAssistant, Text: GreetingReply},
	}, sess.History)
}

func TestRespond_Priority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Branch
	}{
		{"time beats greeting", "hi what time is it", BranchTime},
		{"preference beats movie", "what's your favorite movie", BranchPreference},
		{"greeting beats movie", "hi movie", BranchGreeting},
		{"followup without recommendation falls to movie", "why did you pick that movie", BranchMovie},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(&fakeLLM{})
			reply, err := r.Respond(context.Background(), "", tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply.Branch)
		})
	}
}

func TestRespond_Preference(t *testing.T) {
	r, _ := newTestRouter(&fakeLLM{})
	reply, err := r.Respond(context.Background(), "", "what's your favorite food")
	require.NoError(t, err)
	assert.Equal(t, PreferenceReply, reply.Text)
	assert.Equal(t, BranchPreference, reply.Branch)
}

func TestRespond_MovieFlow(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRouter(&fakeLLM{})

	first, err := r.Respond(ctx, "", "Can you recommend a movie")
	require.NoError(t, err)
	assert.Equal(t, BranchMovie, first.Branch)

	sess, err := store.Get(ctx, first.SessionID)
	require.NoError(t, err)
	var picked *Recommendation
	for i := range MoviePool {
		if MoviePool[i].Title == sess.LastReco {
			picked = &MoviePool[i]
		}
	}
	require.NotNil(t, picked, "last reco must come from the pool")
	assert.Equal(t, fmt.Sprintf(`Try "%s" — %s.`, picked.Title, picked.Blurb), first.Text)

	second, err := r.Respond(ctx, first.SessionID, "why did you pick that movie")
	require.NoError(t, err)
	assert.Equal(t, BranchFollowup, second.Branch)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Contains(t, second.Text, picked.Title)
	assert.True(t, strings.HasPrefix(second.Text, "I suggested “"+picked.Title+"”"))
}

func TestRespond_FollowupWithoutRecommendation(t *testing.T) {
	r, _ := newTestRouter(&fakeLLM{})
	reply, err := r.Respond(context.Background(), "", "why that movie")
	require.NoError(t, err)
	// Falls through to the movie branch because "movie" is a movie keyword.
	assert.Equal(t, BranchMovie, reply.Branch)
}

func TestRespond_Generative(t *testing.T) {
	model := &fakeLLM{outputs: []string{`Assistant: "As an AI, I can't watch TV. Cooking shows are relaxing! Try one." User: cool`}}
	r, _ := newTestRouter(model)

	reply, err := r.Respond(context.Background(), "", "any hobbies you enjoy")
	require.NoError(t, err)
	assert.Equal(t, BranchGenerative, reply.Branch)
	assert.Equal(t, "Cooking shows are relaxing!", reply.Text)

	require.Len(t, model.prompts, 1)
	assert.True(t, strings.HasPrefix(model.prompts[0], "You are a concise, friendly assistant.\n"))
	assert.True(t, strings.HasSuffix(model.prompts[0], "\n\nUser: any hobbies you enjoy\nAssistant:"))
	assert.Equal(t, DefaultOptions().Params, model.params[0])
}

func TestRespond_GenerativeEmptyBecomesGotIt(t *testing.T) {
	r, _ := newTestRouter(&fakeLLM{outputs: []string{"#### 🎉"}})
	reply, err := r.Respond(context.Background(), "", "tell me something")
	require.NoError(t, err)
	assert.Equal(t, "Got it.", reply.Text)
}

func TestRespond_RepetitionGuard(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRouter(&fakeLLM{outputs: []string{"Sounds good.", "SOUNDS GOOD."}})

	first, err := r.Respond(ctx, "", "tell me something")
	require.NoError(t, err)
	assert.Equal(t, "Sounds good", first.Text)

	second, err := r.Respond(ctx, first.SessionID, "tell me more")
	require.NoError(t, err)
	assert.Equal(t, RepeatReply, second.Text)
}

func TestRespond_SmallTalkUsesPriorUserTurn(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRouter(&fakeLLM{outputs: []string{"Not bad.", "Here is a fact."}})

	first, err := r.Respond(ctx, "", "how are you doing today")
	require.NoError(t, err)
	assert.Equal(t, "Not bad", first.Text, "the current turn does not trigger small talk")

	second, err := r.Respond(ctx, first.SessionID, "tell me something")
	require.NoError(t, err)
	assert.Contains(t, smallTalkReplies, second.Text)
}

func TestRespond_HistoryBlock(t *testing.T) {
	ctx := context.Background()
	model := &fakeLLM{outputs: []string{"First answer.", "Second answer.", "Third answer."}}
	opts := DefaultOptions()
	opts.HistoryTurns = 1
	r := NewRouter(session.NewMemoryStore(), model, opts)

	first, err := r.Respond(ctx, "", "tell me one thing")
	require.NoError(t, err)
	_, err = r.Respond(ctx, first.SessionID, "tell me another thing")
	require.NoError(t, err)
	_, err = r.Respond(ctx, first.SessionID, "and a third")
	require.NoError(t, err)

	last := model.lastPrompt()
	assert.Contains(t, last, "User: tell me another thing\nAssistant: Second answer\nUser: and a third\nAssistant:")
	assert.NotContains(t, last, "tell me one thing")
}

func TestRespond_LLMFailure(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRouter(&fakeLLM{err: errors.New("model offline")})

	reply, err := r.Respond(ctx, "", "explain quantum physics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
	require.NotEmpty(t, reply.SessionID)

	sess, err := store.Get(ctx, reply.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []session.Turn{{Role: session.RoleUser, Text: "explain quantum physics"}}, sess.History)
}

func TestRespond_HistoryBound(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRouter(&fakeLLM{})

	sid := ""
	for i := 0; i < 20; i++ {
		reply, err := r.Respond(ctx, sid, "hello")
		require.NoError(t, err)
		sid = reply.SessionID

		sess, err := store.Get(ctx, sid)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(sess.History), session.MaxHistory)
	}
}

func TestRespond_UnknownSessionGetsNewID(t *testing.T) {
	r, _ := newTestRouter(&fakeLLM{})
	reply, err := r.Respond(context.Background(), "made-up", "hi")
	require.NoError(t, err)
	assert.NotEqual(t, "made-up", reply.SessionID)
	assert.Len(t, reply.SessionID, 12)
}

func TestRespond_SameSessionIsSerialized(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRouter(&fakeLLM{})

	first, err := r.Respond(ctx, "", "hi")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Respond(ctx, first.SessionID, fmt.Sprintf("message %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	sess, err := store.Get(ctx, first.SessionID)
	require.NoError(t, err)
	require.Len(t, sess.History, session.MaxHistory)
	for i, turn := range sess.History {
		want := session.RoleUser
		if i%2 == 1 {
			want = session.RoleAssistant
		}
		assert.Equal(t, want, turn.Role, "turns must alternate when serialized")
	}
}

func TestExchanges(t *testing.T) {
	history := []session.Turn{
		{Role: session.RoleUser, Text: "u1"},
		{Role: session.RoleAssistant, Text: "a1"},
		{Role: session.RoleUser, Text: "u2"},
		{Role: session.RoleUser, Text: "u3"},
		{Role: session.RoleAssistant, Text: "a3"},
	}
	assert.Nil(t, exchanges(history, 0))
	assert.Len(t, exchanges(history, 5), 2)
	assert.Equal(t, "u3", exchanges(history, 1)[0].User)
	assert.Equal(t, "a3", exchanges(history, 1)[0].Assistant)
}
