package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce/internal/history"
	"workforce/internal/roster"
	"workforce/internal/routing"
	"workforce/internal/types"
)

// scriptedClient answers each call via fn and records every invocation.
type scriptedClient struct {
	fn    func(system, prompt string) (string, error)
	calls []scriptedCall
}

type scriptedCall struct {
	system string
	prompt string
}

func (c *scriptedClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

func (c *scriptedClient) CompleteWithSystem(_ context.Context, system, prompt string) (string, error) {
	c.calls = append(c.calls, scriptedCall{system: system, prompt: prompt})
	return c.fn(system, prompt)
}

// captureRenderer records what it was asked to render.
type captureRenderer struct {
	title string
	body  string
}

func (r *captureRenderer) Render(title, body string) types.RenderResult {
	r.title = title
	r.body = body
	return types.RenderResult{
		Success:        true,
		Path:           "/tmp/out.pdf",
		Title:          title,
		WordCount:      len(strings.Fields(body)),
		ParagraphCount: 1,
		FileSize:       "1.0 KB",
		CreatedAt:      "2026-01-01 00:00:00",
	}
}

type testEngine struct{}

func (testEngine) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 4)
	for i, r := range text {
		vec[i%4] += float32(r)
	}
	return vec, nil
}
func (testEngine) Dimensions() int { return 4 }
func (testEngine) Name() string    { return "test" }

func testOrchestrator(t *testing.T, client types.LLMClient) (*Orchestrator, *captureRenderer, *history.Store) {
	t.Helper()
	specialists, err := roster.New(roster.Defaults())
	require.NoError(t, err)
	store, err := history.Open(t.TempDir(), "chat_history", testEngine{})
	require.NoError(t, err)
	renderer := &captureRenderer{}
	o := New(Params{
		Client:   client,
		Roster:   specialists,
		History:  store,
		Renderer: renderer,
	})
	return o, renderer, store
}

func TestDecideSendsRosterAndHistory(t *testing.T) {
	client := &scriptedClient{fn: func(system, prompt string) (string, error) {
		return "SINGLE: Content Writer", nil
	}}
	o, _, store := testOrchestrator(t, client)

	_, err := store.Append(context.Background(), "old request", "old response", "Data Analyst", "")
	require.NoError(t, err)

	reply, err := o.Decide(context.Background(), "write a blog post")
	require.NoError(t, err)
	assert.Equal(t, "SINGLE: Content Writer", reply)

	require.Len(t, client.calls, 1)
	call := client.calls[0]
	assert.Contains(t, call.system, "Content Writer:")
	assert.Contains(t, call.system, "SINGLE:")
	assert.Contains(t, call.prompt, "write a blog post")
	assert.Contains(t, call.prompt, "Agent chosen: Data Analyst")
}

func TestDecidePropagatesClientError(t *testing.T) {
	client := &scriptedClient{fn: func(string, string) (string, error) {
		return "", fmt.Errorf("quota exceeded")
	}}
	o, _, _ := testOrchestrator(t, client)

	_, err := o.Decide(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestExecuteSingleEnrichesPrompt(t *testing.T) {
	client := &scriptedClient{fn: func(system, prompt string) (string, error) {
		return "the blog post", nil
	}}
	o, _, store := testOrchestrator(t, client)

	_, err := store.Append(context.Background(), "earlier ask", "earlier answer", "Content Writer", "")
	require.NoError(t, err)

	res := o.Execute(context.Background(), "write about Go", routing.Decision{
		Kind: routing.KindSingle, Agent: "Content Writer",
	})
	assert.Equal(t, "the blog post", res.Response)

	require.Len(t, client.calls, 1)
	call := client.calls[0]
	assert.Contains(t, call.system, "Content Writer AI")
	assert.Contains(t, call.prompt, "=== CURRENT REQUEST ===")
	assert.Contains(t, call.prompt, "write about Go")
	assert.Contains(t, call.prompt, "earlier ask")
}

func TestExecuteSingleUnknownRouteSkipsLLM(t *testing.T) {
	client := &scriptedClient{fn: func(string, string) (string, error) {
		t.Fatal("LLM must not be called for an unknown route")
		return "", nil
	}}
	o, _, _ := testOrchestrator(t, client)

	res := o.Execute(context.Background(), "anything", routing.Decision{
		Kind: routing.KindSingle, Agent: "Quantum Plumber",
	})
	assert.Contains(t, res.Response, "Error: Agent 'Quantum Plumber' not found")
	assert.Empty(t, client.calls)
}

func TestExecuteSingleConvertsCallErrorToText(t *testing.T) {
	client := &scriptedClient{fn: func(string, string) (string, error) {
		return "", fmt.Errorf("connection reset")
	}}
	o, _, _ := testOrchestrator(t, client)

	res := o.Execute(context.Background(), "analyze this", routing.Decision{
		Kind: routing.KindSingle, Agent: "Data Analyst",
	})
	assert.Contains(t, res.Response, "Error: Agent Data Analyst failed to process the task")
	assert.Contains(t, res.Response, "connection reset")
	// Exactly one attempt, no retry.
	assert.Len(t, client.calls, 1)
}

func TestExecuteNone(t *testing.T) {
	o, _, _ := testOrchestrator(t, &scriptedClient{fn: func(string, string) (string, error) {
		return "", nil
	}})

	res := o.Execute(context.Background(), "solve quantum gravity", routing.Decision{
		Kind: routing.KindNone, Message: "No agent handles physics; consider a Physics Researcher agent.",
	})
	assert.Contains(t, res.Response, "No suitable agent found")
	assert.Contains(t, res.Response, "Physics Researcher")
	assert.Equal(t, "No agent handles physics; consider a Physics Researcher agent.", res.Suggestion)
}

func TestExecuteMalformed(t *testing.T) {
	o, _, _ := testOrchestrator(t, &scriptedClient{fn: func(string, string) (string, error) {
		return "", nil
	}})

	res := o.Execute(context.Background(), "whatever", routing.Decision{
		Kind: routing.KindMalformed, Raw: "gibberish reply",
	})
	assert.Contains(t, res.Response, "unexpected decision")
	assert.Contains(t, res.Response, "gibberish reply")
	assert.Empty(t, res.Suggestion)
}

func TestExecuteChainStepFailureContinues(t *testing.T) {
	client := &scriptedClient{fn: func(system, prompt string) (string, error) {
		switch {
		case strings.Contains(system, "Market Research Analyst AI"):
			return "research findings", nil
		case strings.Contains(system, "Data Analyst AI"):
			return "", fmt.Errorf("model overloaded")
		case strings.Contains(system, "Content Writer AI"):
			return "final article", nil
		}
		return "", fmt.Errorf("unexpected call")
	}}
	o, _, _ := testOrchestrator(t, client)

	res := o.Execute(context.Background(), "full market study", routing.Decision{
		Kind:        routing.KindMulti,
		Agents:      []string{"Market Research Analyst", "Data Analyst", "Content Writer"},
		Description: "research, analyze, write",
	})

	// Composite report covers all three steps in order.
	r := res.Response
	i1 := strings.Index(r, "=== Market Research Analyst OUTPUT ===")
	i2 := strings.Index(r, "=== Data Analyst OUTPUT ===")
	i3 := strings.Index(r, "=== Content Writer OUTPUT ===")
	require.True(t, i1 >= 0 && i2 > i1 && i3 > i2, "report:\n%s", r)
	assert.Contains(t, r, "research findings")
	assert.Contains(t, r, "[STEP FAILED]")
	assert.Contains(t, r, "model overloaded")
	assert.Contains(t, r, "final article")

	// The failed step did not abort the chain and step 3 saw both prior
	// outputs, error marker included.
	require.Len(t, client.calls, 3)
	step3 := client.calls[2].prompt
	assert.Contains(t, step3, "=== Market Research Analyst OUTPUT ===")
	assert.Contains(t, step3, "[STEP FAILED]")
	assert.Contains(t, step3, "full market study")
}

func TestExecuteChainInvalidAgents(t *testing.T) {
	client := &scriptedClient{fn: func(string, string) (string, error) {
		t.Fatal("LLM must not be called when the chain has unknown agents")
		return "", nil
	}}
	o, _, _ := testOrchestrator(t, client)

	res := o.Execute(context.Background(), "anything", routing.Decision{
		Kind:   routing.KindMulti,
		Agents: []string{"Content Writer", "Nonexistent One"},
	})
	assert.Contains(t, res.Response, "Invalid agents in workflow: Nonexistent One")
	assert.Empty(t, client.calls)
}

func TestExecuteChainFirstStepSeesNoTranscript(t *testing.T) {
	client := &scriptedClient{fn: func(string, string) (string, error) {
		return "ok", nil
	}}
	o, _, _ := testOrchestrator(t, client)

	o.Execute(context.Background(), "two step job", routing.Decision{
		Kind:   routing.KindMulti,
		Agents: []string{"Web Scraper", "Data Analyst"},
	})

	require.Len(t, client.calls, 2)
	assert.NotContains(t, client.calls[0].prompt, "Previous step outputs")
	assert.Contains(t, client.calls[1].prompt, "Previous step outputs")
	assert.Contains(t, client.calls[1].prompt, "=== Web Scraper OUTPUT ===")
}
