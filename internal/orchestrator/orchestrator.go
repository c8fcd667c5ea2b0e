// Package orchestrator drives one request end to end: it asks the
// classifier which specialist should handle the request, then executes the
// parsed decision as a single dispatch, a sequential multi-agent workflow,
// or a rejection. All specialist calls happen here, one at a time, each
// attempted exactly once.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"workforce/internal/history"
	"workforce/internal/logging"
	"workforce/internal/render"
	"workforce/internal/roster"
	"workforce/internal/routing"
	"workforce/internal/types"
)

// Params collects the collaborators an Orchestrator needs.
type Params struct {
	Client   types.LLMClient
	Roster   *roster.Roster
	History  *history.Store
	Renderer types.Renderer

	// Cleaner strips filler from generated document bodies. Defaults to
	// render.NewPatternCleaner.
	Cleaner render.ContentCleaner

	// RecentWindow is how many past conversations are injected into
	// specialist prompts; DecisionWindow bounds the classifier's view.
	RecentWindow   int
	DecisionWindow int
}

// Orchestrator executes routing decisions against the specialist roster.
type Orchestrator struct {
	client   types.LLMClient
	roster   *roster.Roster
	history  *history.Store
	renderer types.Renderer
	cleaner  render.ContentCleaner

	recentWindow   int
	decisionWindow int
}

// Result is the outcome of executing one decision. Response is always a
// complete user-facing text; Suggestion is set only when no route was
// found and carries the classifier's advice for the history record.
type Result struct {
	Response   string
	Suggestion string
}

// New builds an Orchestrator. Window sizes default sensibly when zero.
func New(p Params) *Orchestrator {
	if p.Cleaner == nil {
		p.Cleaner = render.NewPatternCleaner()
	}
	if p.RecentWindow <= 0 {
		p.RecentWindow = 50
	}
	if p.DecisionWindow <= 0 {
		p.DecisionWindow = 20
	}
	return &Orchestrator{
		client:         p.Client,
		roster:         p.Roster,
		history:        p.History,
		renderer:       p.Renderer,
		cleaner:        p.Cleaner,
		recentWindow:   p.RecentWindow,
		decisionWindow: p.DecisionWindow,
	}
}

// Decide asks the classifier which route should handle the request and
// returns its raw reply for parsing.
func (o *Orchestrator) Decide(ctx context.Context, userPrompt string) (string, error) {
	system := o.classifierInstructions()
	prompt := o.classifierPrompt(userPrompt)

	logging.RoutingDebug("Requesting routing decision for %d-char prompt", len(userPrompt))
	reply, err := o.client.CompleteWithSystem(ctx, system, prompt)
	if err != nil {
		return "", fmt.Errorf("routing decision failed: %w", err)
	}
	logging.Routing("Classifier replied: %s", firstLine(reply))
	return reply, nil
}

// Execute runs a parsed decision to completion. It never returns an error:
// specialist failures are converted to text and reported in the Result.
func (o *Orchestrator) Execute(ctx context.Context, userPrompt string, d routing.Decision) Result {
	switch d.Kind {
	case routing.KindSingle:
		return Result{Response: o.dispatchSingle(ctx, d.Agent, userPrompt)}

	case routing.KindMulti:
		return Result{Response: o.dispatchChain(ctx, d.Agents, d.Description, userPrompt)}

	case routing.KindNone:
		msg := d.Message
		if msg == "" {
			msg = "No specialist covers this request."
		}
		return Result{
			Response:   fmt.Sprintf("No suitable agent found for this request.\n\n%s", msg),
			Suggestion: d.Message,
		}

	default:
		logging.Routing("Unparseable decision: %s", firstLine(d.Raw))
		return Result{
			Response: fmt.Sprintf("I received an unexpected decision: %q. Could you please rephrase your request or specify an agent?", d.Raw),
		}
	}
}

// dispatchSingle validates the route and invokes the specialist once. An
// unknown route name produces an error string without any LLM call.
func (o *Orchestrator) dispatchSingle(ctx context.Context, agent, userPrompt string) string {
	spec, ok := o.roster.Get(agent)
	if !ok {
		logging.Routing("Rejected unknown route %q", agent)
		return fmt.Sprintf("Error: Agent '%s' not found in available specialists.", agent)
	}

	if spec.Document {
		return o.dispatchDocument(ctx, spec, userPrompt)
	}

	prompt := o.enrichedPrompt(agent, userPrompt)
	logging.Workflow("Dispatching to %s", agent)

	reply, err := o.client.CompleteWithSystem(ctx, spec.Instructions, prompt)
	if err != nil {
		logging.Get(logging.CategoryWorkflow).Warn("%s failed: %v", agent, err)
		return fmt.Sprintf("Error: Agent %s failed to process the task - %v", agent, err)
	}
	return reply
}

// enrichedPrompt prepends the recent-conversation block to the task so the
// specialist sees prior context. The block is advisory only.
func (o *Orchestrator) enrichedPrompt(agent, userPrompt string) string {
	context := formatHistoricalContext(o.history.Recent(o.recentWindow))
	return fmt.Sprintf(`%s

=== CURRENT REQUEST ===
%s

Please respond to the current request above, taking into account the chat history provided. Maintain consistency with past approaches and build upon the established context.`, context, userPrompt)
}

// formatHistoricalContext renders records most-recent-first into one
// delimited block. Long prompts and responses are truncated to keep the
// context within reasonable token bounds.
func formatHistoricalContext(records []history.Record) string {
	if len(records) == 0 {
		return "No chat history available."
	}

	var b strings.Builder
	b.WriteString("=== COMPLETE CHAT HISTORY ===\n")
	fmt.Fprintf(&b, "The following is the chat history (%d conversations) for your reference:\n", len(records))
	b.WriteString("Use this history to maintain consistency, learn from past interactions, and build upon previous work.\n\n")

	for i, rec := range records {
		fmt.Fprintf(&b, "--- Conversation %d ---\n", i+1)
		fmt.Fprintf(&b, "Date: %s\n", rec.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "Agent Used: %s\n", rec.RouteLabel)
		fmt.Fprintf(&b, "User Request: %s\n", truncate(rec.UserPrompt, 300))
		fmt.Fprintf(&b, "Response: %s\n\n", truncate(rec.ResponseText, 400))
	}

	b.WriteString("=== END CHAT HISTORY ===")
	return b.String()
}

// classifierInstructions builds the routing system prompt from the current
// roster.
func (o *Orchestrator) classifierInstructions() string {
	var b strings.Builder
	b.WriteString("You are an AI Workforce Manager. Analyze the user's request and decide which specialist agent should handle it.\n\nAvailable specialists:\n")
	for _, name := range o.roster.Names() {
		spec, _ := o.roster.Get(name)
		fmt.Fprintf(&b, "- %s: %s\n", name, spec.Handoff)
	}
	b.WriteString(`
Reply in exactly one of these forms:
SINGLE: <agent name>            (one specialist suffices)
MULTI: <agent> -> <agent> -> ...  (a sequential chain is needed)
WORKFLOW: <one-line plan>       (required immediately after a MULTI line)
NONE: <why no specialist fits and what kind of agent would>

Use the exact agent names from the list above.`)
	return b.String()
}

// classifierPrompt pairs the request with a compact block of past routing
// decisions so similar requests route consistently.
func (o *Orchestrator) classifierPrompt(userPrompt string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this user request and decide the routing: %q\n", userPrompt)

	records := o.history.Recent(o.decisionWindow)
	if len(records) > 0 {
		fmt.Fprintf(&b, "\nPAST ROUTING DECISIONS (%d most recent) for consistency:\n", len(records))
		for i, rec := range records {
			fmt.Fprintf(&b, "%d. [%s] %q -> Agent chosen: %s\n",
				i+1, rec.Timestamp.Format("2006-01-02 15:04:05"), truncate(rec.UserPrompt, 150), rec.RouteLabel)
		}
		b.WriteString("Look for patterns and stay consistent with similar past requests, but adapt to the specifics of the new one.")
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
