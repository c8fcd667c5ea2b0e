// Package manager is the facade callers talk to. One Handle call runs the
// full pipeline: classify, parse, execute, then log the interaction to the
// history store regardless of how execution went.
package manager

import (
	"context"

	"workforce/internal/history"
	"workforce/internal/logging"
	"workforce/internal/orchestrator"
	"workforce/internal/roster"
	"workforce/internal/routing"
)

// Manager ties the orchestrator to the history store.
type Manager struct {
	orch    *orchestrator.Orchestrator
	roster  *roster.Roster
	history *history.Store
}

// New builds a Manager over an already-constructed orchestrator.
func New(orch *orchestrator.Orchestrator, r *roster.Roster, store *history.Store) *Manager {
	return &Manager{orch: orch, roster: r, history: store}
}

// Handle processes one user prompt end to end and returns the response
// text. Every interaction is appended to the history store, including ones
// that failed: errors become the logged response text. The persisted route
// label is the agent name, the multi-route summary, or the "None" sentinel,
// never raw unparseable classifier output.
func (m *Manager) Handle(ctx context.Context, userPrompt string) string {
	var (
		response   string
		label      = history.RouteNone
		suggestion string
	)

	raw, err := m.orch.Decide(ctx, userPrompt)
	if err != nil {
		response = "Error: Could not decide agent - " + err.Error()
	} else {
		decision := routing.Parse(raw, m.roster.Has)
		logging.Manager("Decision: %s -> %s", decision.Kind, decision.Label())

		result := m.orch.Execute(ctx, userPrompt, decision)
		response = result.Response
		suggestion = result.Suggestion
		label = decision.Label()
	}

	m.log(ctx, userPrompt, response, label, suggestion)
	return response
}

// log appends the interaction and flushes. Neither failure aborts the
// request: an embed failure loses the record, a flush failure only loses
// durability, and both are reported as warnings.
func (m *Manager) log(ctx context.Context, userPrompt, response, label, suggestion string) {
	if _, err := m.history.Append(ctx, userPrompt, response, label, suggestion); err != nil {
		logging.Get(logging.CategoryManager).Warn("Failed to log interaction: %v", err)
		return
	}
	if err := m.history.Flush(); err != nil {
		logging.Get(logging.CategoryManager).Warn("History flush failed, in-memory state kept: %v", err)
	}
}

// Search returns stored conversations similar to the query.
func (m *Manager) Search(ctx context.Context, query string, k int) ([]history.Match, error) {
	return m.history.Similar(ctx, query, k)
}

// Recent returns the latest stored conversations, newest first.
func (m *Manager) Recent(limit int) []history.Record {
	return m.history.Recent(limit)
}

// Stats summarizes the history collection.
func (m *Manager) Stats() history.Stats {
	return m.history.Stats()
}

// ClearHistory empties the history store and its backing files.
func (m *Manager) ClearHistory() error {
	return m.history.Clear()
}
